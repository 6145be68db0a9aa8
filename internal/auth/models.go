package auth

import "github.com/recruiterhub/backend/internal/profile"

// RegisterRequest carries the signup form: the initial profile fields
// plus a password. Email arrives through the embedded profile fields.
type RegisterRequest struct {
	profile.User

	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the bearer token handed to a client on register/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
