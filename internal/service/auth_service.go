package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrAuthNotConfigured   = errors.New("identity provider is not configured")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)

// identity provider error codes that mean the caller got the credentials wrong
var credentialErrors = []string{
	"INVALID_PASSWORD",
	"EMAIL_NOT_FOUND",
	"INVALID_LOGIN_CREDENTIALS",
	"INVALID_EMAIL",
	"USER_DISABLED",
}

// AuthService signs users in with the identity provider and verifies the
// ID tokens it issues
type AuthService struct {
	http     *resty.Client
	apiKey   string
	verifier *TokenVerifier
	log      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(baseURL, apiKey string, timeout time.Duration, verifier *TokenVerifier, log *logger.Logger) *AuthService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AuthService{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		apiKey:   apiKey,
		verifier: verifier,
		log:      log.With("component", "auth"),
	}
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	ExpiresIn    string `json:"expiresIn"`
}

type identityError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login exchanges email and password for an ID token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if s.apiKey == "" {
		return nil, ErrAuthNotConfigured
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(map[string]interface{}{
			"email":             req.Email,
			"password":          req.Password,
			"returnSecureToken": true,
		}).
		Post("/v1/accounts:signInWithPassword")
	if err != nil {
		s.log.Warn("identity provider request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		var ie identityError
		_ = json.Unmarshal(resp.Body(), &ie)
		if resp.StatusCode() == http.StatusBadRequest && isCredentialError(ie.Error.Message) {
			s.log.Info("login rejected", "reason", ie.Error.Message)
			return nil, ErrInvalidCredentials
		}
		s.log.Warn("identity provider returned error status", "status", resp.StatusCode(), "reason", ie.Error.Message)
		return nil, fmt.Errorf("%w: status %d", ErrIdentityUnavailable, resp.StatusCode())
	}

	var out signInResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.IDToken == "" {
		return nil, fmt.Errorf("%w: malformed sign-in response", ErrIdentityUnavailable)
	}

	s.log.Info("user logged in", "user_id", out.LocalID)
	return &model.LoginResponse{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		UserID:       out.LocalID,
		Email:        out.Email,
		Company:      model.CompanyFromEmail(out.Email),
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

func isCredentialError(message string) bool {
	for _, code := range credentialErrors {
		// messages look like "INVALID_PASSWORD" or "TOO_MANY_ATTEMPTS : ..."
		if strings.HasPrefix(message, code) {
			return true
		}
	}
	return false
}

// VerifyIDToken checks an ID token's signature and claims and returns them
func (s *AuthService) VerifyIDToken(ctx context.Context, tokenString string) (*model.IDTokenClaims, error) {
	claims, err := s.verifier.Verify(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, ErrAuthNotConfigured) {
			s.log.Debug("id token rejected", "error", err)
		}
		return nil, err
	}
	return claims, nil
}
