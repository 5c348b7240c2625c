package model

import "github.com/golang-jwt/jwt/v5"

// IDTokenClaims are the claims of an identity-provider ID token
type IDTokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UID returns the user id, falling back to the subject claim
func (c *IDTokenClaims) UID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID  string
	Email   string
	IDToken string
}

// Company returns the caller's company derived from their email
func (p Principal) Company() string {
	return CompanyFromEmail(p.Email)
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	ExpiresIn    string `json:"expires_in"`
}
