package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"testgen/internal/model"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// TokenVerifier checks ID tokens against the identity provider's published
// signing keys, its issuer and the project audience
type TokenVerifier struct {
	projectID string
	keys      *jwksCache
	now       func() time.Time
}

// NewTokenVerifier creates a verifier for projectID's tokens. jwksURL is the
// provider's JWK set, e.g. config.FirebaseJWKSURL.
func NewTokenVerifier(projectID, jwksURL string, timeout time.Duration) *TokenVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TokenVerifier{
		projectID: projectID,
		keys:      newJWKSCache(resty.New().SetTimeout(timeout), jwksURL),
		now:       time.Now,
	}
}

// Verify checks the signature, issuer, audience and lifetime of tokenString
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*model.IDTokenClaims, error) {
	if v == nil || v.projectID == "" {
		return nil, ErrAuthNotConfigured
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	claims := &model.IDTokenClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		return v.keys.key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UID() == "" {
		return nil, fmt.Errorf("%w: no user id", ErrInvalidToken)
	}
	return claims, nil
}

// jwksCache holds the provider's RSA keys by kid. An unknown kid triggers a
// refresh at most once per minRefresh.
type jwksCache struct {
	http *resty.Client
	url  string

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
	ttl       time.Duration

	minRefresh time.Duration
	now        func() time.Time
}

func newJWKSCache(client *resty.Client, url string) *jwksCache {
	return &jwksCache{
		http:       client,
		url:        url,
		keys:       map[string]*rsa.PublicKey{},
		ttl:        6 * time.Hour,
		minRefresh: time.Minute,
		now:        time.Now,
	}
}

type jwkSet struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (c *jwksCache) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key := c.keys[kid]
	fetched := !c.fetchedAt.IsZero()
	age := c.now().Sub(c.fetchedAt)
	c.mu.RUnlock()

	if key != nil && age < c.ttl {
		return key, nil
	}
	if key == nil && fetched && age < c.minRefresh {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}

	if err := c.refresh(ctx); err != nil {
		if key != nil {
			// a stale key beats none while the provider is unreachable
			return key, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key = c.keys[kid]; key == nil {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return key, nil
}

func (c *jwksCache) refresh(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return fmt.Errorf("fetch signing keys: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fetch signing keys: status %d", resp.StatusCode())
	}

	var set jwkSet
	if err := json.Unmarshal(resp.Body(), &set); err != nil {
		return fmt.Errorf("decode signing keys: %w", err)
	}
	next := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		if pub, err := rsaPublicKey(k.N, k.E); err == nil {
			next[k.Kid] = pub
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = c.now()
	if len(next) == 0 {
		return errors.New("signing key set has no RSA keys")
	}
	c.keys = next
	return nil
}

func rsaPublicKey(n64, e64 string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n64)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e64)
	if err != nil {
		return nil, err
	}
	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 3 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e.Int64())}, nil
}
