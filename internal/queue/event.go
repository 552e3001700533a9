// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderCreatedQueue is the durable queue order events are routed to.
const OrderCreatedQueue = "order.created"

// OrderCreatedEvent is published after an order is stored. It carries enough
// information for downstream consumers to log or notify without querying
// the primary store.
type OrderCreatedEvent struct {
	OrderID   string   `json:"order_id"`
	UserID    string   `json:"user_id"`
	Items     []string `json:"items"`
	Total     float64  `json:"total"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
}
