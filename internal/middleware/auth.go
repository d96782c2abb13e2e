// Package middleware provides authentication, logging, tracing, metrics and rate limiting middleware.
package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("bearer token required")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingSubject is returned when the token carries no usable subject,
	// including one too long to be stored as a user id.
	ErrMissingSubject = errors.New("token subject required")
)

// MaxSubjectLength matches the width of users.id and the columns referencing it.
const MaxSubjectLength = 64

// Identity is the caller extracted from a verified bearer token.
type Identity struct {
	UserID      string
	DisplayName string
}

// TokenVerifier validates identity-provider tokens signed with a shared HMAC secret.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier returns a verifier. Empty issuer or audience disables that check.
func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Verify parses and validates the token and returns the caller identity.
func (v *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" || utf8.RuneCountInString(sub) > MaxSubjectLength {
		return nil, ErrMissingSubject
	}

	return &Identity{
		UserID:      sub,
		DisplayName: displayNameClaim(claims),
	}, nil
}

// displayNameClaim picks the first non-empty name-like claim.
func displayNameClaim(claims jwt.MapClaims) string {
	for _, key := range []string{"username", "preferred_username", "name"} {
		if v, ok := claims[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
