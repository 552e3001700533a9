package utils // package utils provides password hashing and session token helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. The auth gate treats all three the same way (403)
// but they stay distinguishable for logging and tests.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// AccessToken is a signed session token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// SessionClaims is the token payload: the user identifier plus the standard
// iat/exp claims.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens with a process-wide
// secret. It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	validID func(string) bool
	now     func() time.Time
}

// TokenOption customises a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithIDValidator rejects tokens whose user identifier is outside the
// credential store's key space. Such tokens verify as ErrTokenMalformed.
func WithIDValidator(fn func(string) bool) TokenOption {
	return func(t *TokenIssuer) { t.validID = fn }
}

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secret string, ttl time.Duration, opts ...TokenOption) *TokenIssuer {
	t := &TokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		validID: func(id string) bool { return id != "" },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue builds and signs a token for userID that expires after the
// configured TTL.
func (t *TokenIssuer) Issue(userID string) (AccessToken, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: claims.ExpiresAt.Time}, nil
}

// Verify checks signature and expiry and returns the embedded user ID. The
// error is one of ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "", ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	default:
		return "", ErrTokenMalformed
	}
	if !t.validID(claims.UserID) {
		return "", ErrTokenMalformed
	}
	return claims.UserID, nil
}
