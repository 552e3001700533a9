package model

import (
	"fmt"
	"time"

	"github.com/iliyamo/shop-backend/internal/apperr"
)

// OrderStatusProcessing is the status every new order starts in.
const OrderStatusProcessing = "Processando"

// OrderItem is a line of an order request. It is flattened into a display
// string when the order is stored; its fields are taken as sent.
type OrderItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

func (i OrderItem) String() string {
	return fmt.Sprintf("%s (x%d)", i.Title, i.Quantity)
}

// Order is a purchase owned by exactly one user.
type Order struct {
	ID     string    `json:"_id"`
	UserID string    `json:"userId"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
	Items  []string  `json:"items"`
	Total  float64   `json:"total"`
}

// NewOrder builds an order for userID. It requires at least one item and a
// strictly positive total.
func NewOrder(userID string, items []OrderItem, total float64, now time.Time) (Order, error) {
	if userID == "" || len(items) == 0 || !(total > 0) {
		return Order{}, apperr.Validation("Dados do pedido incompletos.")
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.String())
	}
	return Order{
		UserID: userID,
		Date:   now.UTC(),
		Status: OrderStatusProcessing,
		Items:  lines,
		Total:  total,
	}, nil
}
