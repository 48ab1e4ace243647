package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// SeedFunc writes demo data and reports whether it did.
type SeedFunc func(ctx context.Context) (bool, error)

type SystemHandler struct {
	db     Pinger
	seed   SeedFunc
	logger *zap.Logger
}

func NewSystemHandler(db Pinger, seed SeedFunc, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, seed: seed, logger: logger}
}

// HealthCheck returns server status
func (h *SystemHandler) HealthCheck(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Seed creates demo data when the catalog is empty
func (h *SystemHandler) Seed(c *gin.Context) {
	seeded, err := h.seed(c.Request.Context())
	if err != nil {
		h.logger.Error("Seed failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "InternalError"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seeded": seeded})
}
