package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"verso/globals"
	"verso/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

// Error codes surfaced to the client so it can distinguish an expired token
// (refreshable) from everything else.
const (
	CodeAuthRequired = "AUTH_REQUIRED"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeAuthError    = "AUTH_ERROR"
)

func authFailure(w http.ResponseWriter, code, msg string) {
	utils.RespondWithJSON(w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": msg,
		"code":    code,
	})
}

func parseBearer(r *http.Request) (*Claims, string, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, CodeAuthRequired, errors.New("missing token")
	}
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, CodeAuthError, errors.New("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, CodeTokenExpired, err
		}
		return nil, CodeAuthError, err
	}
	if !token.Valid {
		return nil, CodeAuthError, errors.New("invalid token")
	}
	return claims, "", nil
}

// Authenticate requires a valid user token and stores identity in the context.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, code, err := parseBearer(r)
		if err != nil {
			authFailure(w, code, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// AdminOnly requires a valid token whose role claim contains "admin".
func AdminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, code, err := parseBearer(r)
		if err != nil {
			authFailure(w, code, "Unauthorized")
			return
		}

		isAdmin := false
		for _, role := range claims.Role {
			if role == "admin" {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			utils.RespondWithJSON(w, http.StatusForbidden, map[string]any{
				"success": false,
				"message": "Admin access required",
			})
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth injects identity when a valid token is present but never rejects.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, _, err := parseBearer(r); err == nil {
			ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
			r = r.WithContext(ctx)
		}
		next(w, r, ps)
	}
}

func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" || len(tokenString) < 8 {
		return nil, fmt.Errorf("invalid token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}
