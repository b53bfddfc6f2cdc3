package models

import "time"

// User holds the account document. Cart is embedded as productid -> quantity.
// The refresh token is stored sha256-hashed; the raw token only ever lives on
// the client.
type User struct {
	UserID        string         `json:"userid" bson:"userid"`
	Name          string         `json:"name" bson:"name"`
	Email         string         `json:"email" bson:"email"`
	Password      string         `json:"-" bson:"password"`
	Role          []string       `json:"role" bson:"role"`
	Cart          map[string]int `json:"cart" bson:"cart"`
	Wishlist      []string       `json:"wishlist,omitempty" bson:"wishlist,omitempty"`
	RefreshToken  string         `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time      `json:"-" bson:"refresh_expiry,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	LastLogin     time.Time      `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
}

// IsAdmin reports whether the user carries the admin role claim.
func (u *User) IsAdmin() bool {
	for _, r := range u.Role {
		if r == "admin" {
			return true
		}
	}
	return false
}
