package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried by bearer tokens. Email doubles as
// the caller key for rate limiting.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
