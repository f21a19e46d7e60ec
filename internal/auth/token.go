// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthorized marks an authorization-class failure. Executor retries
// exactly these errors after a refresh.
var ErrUnauthorized = errors.New("unauthorized")

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

// Config configures a TokenSource.
type Config struct {
	Secret   string
	Issuer   string
	Subject  string
	TokenTTL time.Duration

	// Skew is how long before expiry a cached token is considered stale.
	Skew time.Duration
}

// Claims are the claims carried by a service credential.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenSource mints and caches service credentials.
type TokenSource struct {
	secret  []byte
	issuer  string
	subject string
	ttl     time.Duration
	skew    time.Duration
	now     func() time.Time

	mu        sync.Mutex
	current   string
	expiresAt time.Time
}

// NewTokenSource validates cfg and returns a TokenSource.
func NewTokenSource(cfg Config) (*TokenSource, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("auth secret must be at least %d characters, got %d", MinSecretLength, len(cfg.Secret))
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	if cfg.Skew <= 0 || cfg.Skew >= cfg.TokenTTL {
		cfg.Skew = cfg.TokenTTL / 10
	}
	if cfg.Subject == "" {
		cfg.Subject = "recommend-engine"
	}
	return &TokenSource{
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		subject: cfg.Subject,
		ttl:     cfg.TokenTTL,
		skew:    cfg.Skew,
		now:     time.Now,
	}, nil
}

// GenerateSecret returns a random hex secret suitable for a single process.
func GenerateSecret() (string, error) {
	b := make([]byte, MinSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Token returns the cached credential, minting a new one when it is missing
// or close to expiry.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" && s.now().Add(s.skew).Before(s.expiresAt) {
		return s.current, nil
	}
	return s.mintLocked()
}

// Refresh discards the cached credential and mints a new one.
func (s *TokenSource) Refresh(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked()
}

func (s *TokenSource) mintLocked() (string, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   s.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	s.current = signed
	s.expiresAt = exp
	return signed, nil
}

// Verify parses and validates a credential. Every failure wraps ErrUnauthorized.
func (s *TokenSource) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing credential", ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrUnauthorized)
	}
	return claims, nil
}
