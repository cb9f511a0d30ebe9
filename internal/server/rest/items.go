package rest

import (
	"bytes"
	"net/http"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type itemRequest struct {
	Name           string   `json:"name" binding:"required,notblank"`
	Category       string   `json:"category"`
	Quantity       int      `json:"quantity" binding:"gte=0"`
	MinQuantity    *int     `json:"minQuantity" binding:"omitempty,gte=0"`
	Price          float64  `json:"price" binding:"gte=0"`
	Tags           []string `json:"tags"`
	ExpirationDate string   `json:"expirationDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r *itemRequest) toModel() *models.Item {
	item := &models.Item{
		Name:        r.Name,
		Category:    r.Category,
		Quantity:    r.Quantity,
		MinQuantity: models.DefaultMinQuantity,
		Price:       r.Price,
		Tags:        r.Tags,
	}
	if r.MinQuantity != nil {
		item.MinQuantity = *r.MinQuantity
	}
	if r.ExpirationDate != "" {
		// already checked by the datetime rule
		if d, err := time.Parse(dateLayout, r.ExpirationDate); err == nil {
			item.ExpirationDate = &d
		}
	}
	return item
}

func (h *handlers) bindItem(c *gin.Context) (*models.Item, bool) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: bindingMessage(err)})
		return nil, false
	}
	return req.toModel(), true
}

func (h *handlers) listItems(c *gin.Context) {
	items, err := h.deps.Items.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) searchItems(c *gin.Context) {
	items, err := h.deps.Items.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) getItem(c *gin.Context) {
	item, err := h.deps.Items.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) createItem(c *gin.Context) {
	item, ok := h.bindItem(c)
	if !ok {
		return
	}
	created, err := h.deps.Items.Create(c.Request.Context(), item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateItem(c *gin.Context) {
	item, ok := h.bindItem(c)
	if !ok {
		return
	}
	updated, err := h.deps.Items.Update(c.Request.Context(), c.Param("name"), item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteItem(c *gin.Context) {
	if err := h.deps.Items.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) totalPrice(c *gin.Context) {
	total, err := h.deps.Items.TotalPrice(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalPrice": total})
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.deps.Items.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) lowStock(c *gin.Context) {
	items, err := h.deps.Items.LowStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) expiring(c *gin.Context) {
	items, err := h.deps.Items.Expiring(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) exportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.deps.Items.ExportCSV(c.Request.Context(), &buf); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="inventory.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *handlers) archive(c *gin.Context) {
	a, err := h.deps.Archive.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
