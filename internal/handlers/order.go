package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

type OrderStore interface {
	Place(ctx context.Context, req models.PlaceOrderRequest) (int64, error)
	List(ctx context.Context, limit int) ([]models.OrderSummary, error)
}

type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
}

type OrderHandler struct {
	repo      OrderStore
	publisher OrderEventPublisher
}

func NewOrderHandler(repo OrderStore, pub OrderEventPublisher) *OrderHandler {
	return &OrderHandler{
		repo:      repo,
		publisher: pub,
	}
}

// PlaceOrder creates an order with a single item
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	req := models.PlaceOrderRequest{
		CustomerEmail: param(c, "customer_email"),
		ProductID:     models.ParseInt64(param(c, "product_id"), 0),
		Qty:           models.ParseInt(param(c, "qty"), models.DefaultQty),
	}
	req.Normalize()

	if err := req.Validate(); err != nil {
		writeError(c, "place order", err)
		return
	}

	orderID, err := h.repo.Place(c.Request.Context(), req)
	if err != nil {
		writeError(c, "place order", err)
		return
	}

	event := models.OrderPlacedEvent{
		OrderID:       orderID,
		CustomerEmail: req.CustomerEmail,
		ProductID:     req.ProductID,
		Qty:           req.Qty,
		PlacedAt:      time.Now().UTC(),
	}
	if err := h.publisher.PublishOrderPlaced(c.Request.Context(), event); err != nil {
		// The order is committed; losing the event is not worth a 500.
		log.Printf("⚠️ Failed to publish event for order #%d: %v", orderID, err)
	}

	log.Printf("✅ Order #%d placed: product %d x%d", orderID, req.ProductID, req.Qty)

	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.JSON(http.StatusOK, models.OrderPlacedResponse{OK: true, OrderID: orderID})
}

// ListOrders returns order totals, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit := models.Clamp(
		models.ParseInt(c.Query("limit"), models.DefaultOrderLimit),
		1, models.MaxOrderLimit,
	)

	orders, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "list orders", err)
		return
	}

	c.JSON(http.StatusOK, models.OrdersResponse{Items: orders})
}
