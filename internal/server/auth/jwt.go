// Package auth issues and verifies session tokens and hashes login secrets.
package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the immutable claim set of a session token. It is built once in
// Issue and never enriched afterwards.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Name   string `json:"name"`
}

// Issuer signs and verifies HS256 session tokens with a process-wide secret.
// It is safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for p and its expiry.
func (i *Issuer) Issue(p models.Principal) (string, time.Time, error) {
	if p.ID == "" || p.Name == "" {
		return "", time.Time{}, common.ErrMalformedSession
	}

	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: p.ID,
		Name:   p.Name,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify returns the principal asserted by token.
//
// The HMAC is checked over the raw segments before any claim is decoded, so
// an altered byte anywhere in the token, separators included, yields
// ErrInvalidSignature rather than a decoding error. Expired tokens yield
// ErrSessionExpired; signed tokens without the identity claims yield
// ErrMalformedSession.
func (i *Issuer) Verify(token string) (models.Principal, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return models.Principal{}, common.ErrInvalidSignature
	}

	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return models.Principal{}, common.ErrInvalidSignature
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, i.secret); err != nil {
		return models.Principal{}, common.ErrInvalidSignature
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.Principal{}, common.ErrSessionExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return models.Principal{}, common.ErrInvalidSignature
		default:
			return models.Principal{}, common.ErrMalformedSession
		}
	}

	if claims.UserID == "" || claims.Name == "" {
		return models.Principal{}, common.ErrMalformedSession
	}

	return models.Principal{ID: claims.UserID, Name: claims.Name}, nil
}
