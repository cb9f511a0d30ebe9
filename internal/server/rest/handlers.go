package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Authenticator logs users in and registers new ones.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) (*models.User, error)
}

// Inventory is the item catalogue.
type Inventory interface {
	List(ctx context.Context) ([]*models.Item, error)
	Search(ctx context.Context, query string) ([]*models.Item, error)
	Get(ctx context.Context, name string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, name string, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, name string) error
	TotalPrice(ctx context.Context) (float64, error)
	Stats(ctx context.Context) (*models.ItemStats, error)
	LowStock(ctx context.Context) ([]*models.Item, error)
	Expiring(ctx context.Context) ([]*models.Item, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Ledger records and lists stock movements.
type Ledger interface {
	Record(ctx context.Context, username, itemName string, typ models.TransactionType, quantity int) (*models.Transaction, error)
	List(ctx context.Context, itemName string) ([]*models.Transaction, error)
}

// Archiver stores inventory snapshots in object storage.
type Archiver interface {
	Enabled() bool
	Create(ctx context.Context) (*services.Archive, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type messageResponse struct {
	Message string `json:"message"`
}

type handlers struct {
	deps   Deps
	logger logging.Logger
}

func (h *handlers) routes(r *gin.Engine) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/register", h.register)
	r.GET("/auth/me", h.me)

	r.GET("/actuator/health", h.health)

	items := r.Group("/items")
	items.GET("", h.listItems)
	items.POST("", h.createItem)
	items.GET("/search", h.searchItems)
	items.GET("/total-price", h.totalPrice)
	items.GET("/stats", h.stats)
	items.GET("/low-stock", h.lowStock)
	items.GET("/expiring", h.expiring)
	items.GET("/export", h.exportCSV)
	items.POST("/export", h.archive)
	items.GET("/:name", h.getItem)
	items.PUT("/:name", h.updateItem)
	items.DELETE("/:name", h.deleteItem)

	r.GET("/transactions", h.listTransactions)
	r.POST("/transactions", h.recordTransaction)
}

// fail maps service errors onto HTTP responses. Anything unexpected is logged
// and reported as a 500 without detail.
func (h *handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, messageResponse{Message: validationMessage(err)})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, messageResponse{Message: "Item not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, messageResponse{Message: "Item already exists"})
	case errors.Is(err, common.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, messageResponse{Message: "Insufficient stock"})
	case errors.Is(err, common.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "Archive storage is not configured"})
	default:
		h.logger.Error(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path,
			"error", err,
			"request_id", c.GetString(requestIDKey),
		)
		c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	if msg == "" {
		return "Request body is invalid"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (h *handlers) health(c *gin.Context) {
	if h.deps.DB != nil {
		if err := h.deps.DB.PingContext(c.Request.Context()); err != nil {
			h.logger.Error(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
