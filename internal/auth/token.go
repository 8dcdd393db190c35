package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTypeAccess marks short-lived tokens accepted on protected requests.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens accepted only by the refresh flow.
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is the single failure returned for any undecodable token:
// bad signature, malformed encoding, wrong algorithm, or expiry. The reason
// is deliberately not distinguishable.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the closed claim set carried by every issued token.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec issues and decodes signed, expiring, typed tokens. The secret
// and TTLs are fixed at construction; a codec is safe for concurrent use.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenCodec(secret []byte, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess signs an access token for subject with the configured TTL.
func (c *TokenCodec) IssueAccess(subject string) (string, error) {
	return c.issue(subject, TokenTypeAccess, c.accessTTL)
}

// IssueAccessTTL signs an access token with an explicit TTL.
func (c *TokenCodec) IssueAccessTTL(subject string, ttl time.Duration) (string, error) {
	return c.issue(subject, TokenTypeAccess, ttl)
}

// IssueRefresh signs a refresh token for subject with the configured TTL.
func (c *TokenCodec) IssueRefresh(subject string) (string, error) {
	return c.issue(subject, TokenTypeRefresh, c.refreshTTL)
}

func (c *TokenCodec) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the claim set. Every
// failure maps to ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SubjectOfAccess returns the subject of a valid access token. Refresh
// tokens are rejected here even though they decode; the type tag is what
// keeps a leaked refresh token from authorizing resource requests.
func (c *TokenCodec) SubjectOfAccess(token string) (string, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeAccess {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
