package middleware

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
)

// JWTConfig configures a client-side JWT signer.
type JWTConfig struct {
	// Method is the signing algorithm name, e.g. "HS256", "RS256", "ES256".
	// Defaults to HS256.
	Method string

	// Secret is the HMAC key for HS* methods.
	Secret string

	// PrivateKey is the *rsa.PrivateKey, *ecdsa.PrivateKey or
	// ed25519.PrivateKey for asymmetric methods.
	PrivateKey any

	Issuer   string
	Subject  string
	Audience []string

	// Claims are copied into every token before the registered claims.
	Claims map[string]any

	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration

	// Skew is how long before expiry a cached token is replaced. Defaults to
	// TTL/10.
	Skew time.Duration
}

func (c *JWTConfig) applyDefaults() {
	if c.Method == "" {
		c.Method = gojwt.SigningMethodHS256.Alg()
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.Skew <= 0 || c.Skew >= c.TTL {
		c.Skew = c.TTL / 10
	}
}

// JWTSigner mints and caches short-lived tokens.
type JWTSigner struct {
	cfg    JWTConfig
	method gojwt.SigningMethod
	key    any
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSigner validates cfg and returns a signer.
func NewJWTSigner(cfg JWTConfig) (*JWTSigner, error) {
	cfg.applyDefaults()
	method := gojwt.GetSigningMethod(cfg.Method)
	if method == nil || method == gojwt.SigningMethodNone {
		return nil, errors.InvalidConfig("jwt: unsupported signing method " + cfg.Method)
	}

	var key any
	switch method.(type) {
	case *gojwt.SigningMethodHMAC:
		if cfg.Secret == "" {
			return nil, errors.InvalidConfig("jwt: secret is required for " + cfg.Method)
		}
		key = []byte(cfg.Secret)
	default:
		if cfg.PrivateKey == nil {
			return nil, errors.InvalidConfig("jwt: private key is required for " + cfg.Method)
		}
		key = cfg.PrivateKey
	}
	return &JWTSigner{cfg: cfg, method: method, key: key, now: time.Now}, nil
}

// Token returns the cached token, signing a new one when it is close to
// expiry.
func (s *JWTSigner) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.Skew).Before(s.expires) {
		return s.token, nil
	}

	claims := gojwt.MapClaims{}
	maps.Copy(claims, s.cfg.Claims)
	exp := now.Add(s.cfg.TTL)
	claims["iat"] = gojwt.NewNumericDate(now)
	claims["nbf"] = gojwt.NewNumericDate(now)
	claims["exp"] = gojwt.NewNumericDate(exp)
	claims["jti"] = uuid.NewString()
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}
	if s.cfg.Subject != "" {
		claims["sub"] = s.cfg.Subject
	}
	if len(s.cfg.Audience) > 0 {
		claims["aud"] = gojwt.ClaimStrings(s.cfg.Audience)
	}

	token, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: signing token: %w", err)
	}
	s.token, s.expires = token, exp
	return token, nil
}

// JWT signs a bearer token for every call that has no authorization header.
// Configuration errors surface when the middleware is registered.
func JWT(cfg JWTConfig) httpclient.Middleware {
	var signer *JWTSigner
	bearer := BearerFrom(func(_ context.Context) (string, error) {
		return signer.Token()
	})
	bearer.Init = func(*httpclient.Client) error {
		s, err := NewJWTSigner(cfg)
		if err != nil {
			return err
		}
		signer = s
		return nil
	}
	return bearer
}
