package repository

import (
	"context"

	"github.com/iliyamo/shop-backend/internal/model"
)

// UserStore persists user credentials.
type UserStore interface {
	// Create inserts u and returns its generated ID. It returns
	// ErrEmailExists when the email is already taken.
	Create(ctx context.Context, u model.User) (string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	// ValidID reports whether id is well-formed for this store's key space.
	ValidID(id string) bool
}

// ProductStore persists the catalogue.
type ProductStore interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, o model.Order) (model.Order, error)
	// ListByUser returns the orders owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
}

// Stores bundles the stores of one backend.
type Stores struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
}
