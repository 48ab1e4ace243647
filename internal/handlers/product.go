package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductCatalog interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	logger  *zap.Logger
}

func NewProductHandler(catalog ProductCatalog, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// ListProducts returns all products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.GetAll(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "ProductNotFound"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalog
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "price must not be negative"})
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "CategoryNotFound"})
			return
		}
		h.internalError(c, err)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	c.JSON(http.StatusCreated, product)
}

// UpdateProductPrice changes the current price. Lines already on orders keep
// their captured price.
func (h *ProductHandler) UpdateProductPrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "price must not be negative"})
		return
	}

	product, err := h.catalog.UpdatePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "ProductNotFound"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "InternalError"})
}
