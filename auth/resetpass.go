package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	"verso/db"
	"verso/rdx"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 10 * time.Minute

func sendResetEmail(toEmail, token string) error {
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}

	msg := []byte("Subject: Password Reset\n\nYour password reset code is: " + token)

	auth := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{toEmail}, msg)
}

// ForgotPassword issues a short-lived reset code and emails it.
func ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": email}).Err()
	if err != nil {
		// Do not reveal whether the account exists.
		utils.SendResponse(w, http.StatusOK, nil, "If the account exists, a reset code was sent", nil)
		return
	}

	token := utils.GenerateRandomDigitString(6)
	if err := rdx.SetWithExpiry("pwreset:"+email, token, resetTokenTTL); err != nil {
		log.Printf("Failed to cache reset token: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue reset code")
		return
	}

	if err := sendResetEmail(email, token); err != nil {
		log.Printf("Failed to send reset email: %v", err)
	}

	utils.SendResponse(w, http.StatusOK, nil, "If the account exists, a reset code was sent", nil)
}

// ResetPassword verifies the emailed code and replaces the password hash.
func ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Token == "" || len(input.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Token and a password of at least 8 characters are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	stored, err := rdx.RdxGet("pwreset:" + email)
	if err != nil || stored != input.Token {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset code")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not process password")
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": string(hashedPassword)}, "$unset": bson.M{"refresh_token": "", "refresh_expiry": ""}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	rdx.RdxDel("pwreset:" + email)

	utils.SendResponse(w, http.StatusOK, nil, "Password reset successfully", nil)
}
