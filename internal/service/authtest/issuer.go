// Package authtest provides an in-process ID token issuer for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"testgen/internal/model"
)

// Issuer serves a JWKS document and signs RS256 ID tokens with its key
type Issuer struct {
	ProjectID string
	Server    *httptest.Server

	key     *rsa.PrivateKey
	kid     string
	fetches atomic.Int32
}

// NewIssuer starts an issuer for projectID; it is closed with the test
func NewIssuer(t testing.TB, projectID string) *Issuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	iss := &Issuer{ProjectID: projectID, key: key, kid: "test-key-1"}
	iss.Server = httptest.NewServer(http.HandlerFunc(iss.serveJWKS))
	t.Cleanup(iss.Server.Close)
	return iss
}

// JWKSURL is the address of the key set
func (i *Issuer) JWKSURL() string { return i.Server.URL }

// Fetches counts key set downloads
func (i *Issuer) Fetches() int { return int(i.fetches.Load()) }

func (i *Issuer) serveJWKS(w http.ResponseWriter, _ *http.Request) {
	i.fetches.Add(1)
	enc := base64.RawURLEncoding
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": i.kid,
			"n":   enc.EncodeToString(i.key.N.Bytes()),
			"e":   enc.EncodeToString(big.NewInt(int64(i.key.E)).Bytes()),
		}},
	})
}

// Claims returns claims the verifier accepts for uid
func (i *Issuer) Claims(uid, email string) *model.IDTokenClaims {
	now := time.Now()
	return &model.IDTokenClaims{
		UserID: uid,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://securetoken.google.com/" + i.ProjectID,
			Audience:  jwt.ClaimStrings{i.ProjectID},
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

// Sign signs claims with the issuer's key
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	return i.SignWithKid(t, claims, i.kid)
}

// SignWithKid signs claims with the issuer's key under an arbitrary kid
func (i *Issuer) SignWithKid(t testing.TB, claims jwt.Claims, kid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(i.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// Token returns a valid signed ID token for uid
func (i *Issuer) Token(t testing.TB, uid, email string) string {
	t.Helper()
	return i.Sign(t, i.Claims(uid, email))
}
