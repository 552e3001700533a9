package model

import (
	"strings"
	"time"

	"github.com/iliyamo/shop-backend/internal/apperr"
)

// User represents a registered customer as stored in the users collection
// (or table). The JSON form is the profile projection: the password hash is
// never serialised.
//
// Fields:
//
//	ID           – store key (ObjectID hex for MongoDB, decimal for MySQL).
//	Name         – display name.
//	Email        – unique, case-sensitive login key.
//	PasswordHash – bcrypt digest; the plaintext is never stored.
//	CreatedAt    – registration timestamp.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser validates the required fields of a user about to be created.
func NewUser(name, email, passwordHash string, now time.Time) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || passwordHash == "" {
		return User{}, apperr.Validation("Todos os campos são obrigatórios.")
	}
	return User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}, nil
}
