package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/apperr"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/queue"
	"github.com/iliyamo/shop-backend/internal/repository"
)

const (
	msgOrderIncomplete = "Dados do pedido incompletos."
	msgOrderCreated    = "Pedido realizado com sucesso!"
	msgCreateOrder     = "Erro ao criar pedido."
	msgListOrders      = "Erro ao buscar pedidos do usuário."
)

// publishTimeout bounds the best-effort order event publication.
const publishTimeout = 3 * time.Second

// OrderEventPublisher announces stored orders to other services.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// OrderHandler serves the authenticated user's orders. Both endpoints sit
// behind the auth gate and only ever touch the caller's own orders.
type OrderHandler struct {
	Orders repository.OrderStore
	Events OrderEventPublisher // optional
	Log    zerolog.Logger

	now func() time.Time
}

func NewOrderHandler(orders repository.OrderStore, events OrderEventPublisher, log zerolog.Logger) *OrderHandler {
	if orders == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Events: events, Log: log, now: time.Now}
}

type createOrderReq struct {
	Items []model.OrderItem `json:"items" validate:"required,min=1"`
	Total float64           `json:"total" validate:"gt=0"`
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgListOrders, err))
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// Create stores an order for the caller. The owner is always taken from the
// token, never from the body.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, h.Log, err, msgOrderIncomplete)
	}
	if err := c.Validate(&req); err != nil {
		return invalidRequest(c, h.Log, err, msgOrderIncomplete)
	}
	o, err := model.NewOrder(uid, req.Items, req.Total, h.now())
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	o, err = h.Orders.Create(ctx, o)
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgCreateOrder, err))
	}
	h.publish(c.Request().Context(), o)

	return c.JSON(http.StatusCreated, echo.Map{"message": msgOrderCreated, "order": o})
}

// publish sends the order event; failures are logged by the publisher and
// never affect the response.
func (h *OrderHandler) publish(parent context.Context, o model.Order) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), publishTimeout)
	defer cancel()
	_ = h.Events.PublishOrderCreated(ctx, queue.OrderCreatedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Items:     o.Items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.Date.Format(time.RFC3339),
	})
}
