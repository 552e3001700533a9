package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when asked to hash an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns a salted bcrypt hash using the given cost. Each call
// draws a fresh salt, so equal inputs produce different digests.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash. Malformed hashes and
// over-long inputs simply yield false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
