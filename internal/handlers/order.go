package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/service"
	"go.uber.org/zap"
)

type ItemAdder interface {
	AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderItem, error)
}

type OrderStore interface {
	Create(ctx context.Context, clientID int64) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

type OrderHandler struct {
	items  ItemAdder
	orders OrderStore
	logger *zap.Logger
}

func NewOrderHandler(items ItemAdder, orders OrderStore, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		items:  items,
		orders: orders,
		logger: logger,
	}
}

// AddItem adds quantity units of a product to a draft order
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}

	item, err := h.items.AddItem(c.Request.Context(), orderID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewOrderItemResponse(*item))
}

// GetOrder returns a single order with items
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "OrderNotFound"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder opens a new draft order for a client
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req.ClientID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "ClientNotFound"})
			return
		}
		h.writeError(c, err)
		return
	}

	h.logger.Info("Draft order created", zap.Int64("order_id", order.ID), zap.Int64("client_id", order.ClientID))
	c.JSON(http.StatusCreated, order)
}

// writeError maps add-item failures to their client-visible status. Anything
// unrecognised is a 500 and its text is not leaked.
func (h *OrderHandler) writeError(c *gin.Context, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, models.ErrorResponse{Detail: detail})
}

func statusFor(err error) (int, string) {
	kind := service.Kind(err)
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, kind
	case errors.Is(err, service.ErrOrderNotEditable):
		return http.StatusConflict, kind
	case errors.Is(err, service.ErrNotEnoughStock):
		return http.StatusBadRequest, kind
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity, kind
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Timeout"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

// pathID parses a positive integer path parameter, writing a 422 when it is
// not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "invalid " + name})
		return 0, false
	}
	return id, true
}
