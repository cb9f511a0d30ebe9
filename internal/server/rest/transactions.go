package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

type transactionRequest struct {
	ItemName string `json:"itemName" binding:"required,notblank"`
	Type     string `json:"type" binding:"required,oneof=IN OUT in out"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

func (h *handlers) recordTransaction(c *gin.Context) {
	user, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: bindingMessage(err)})
		return
	}

	typ := models.TransactionType(strings.ToUpper(req.Type))
	tr, err := h.deps.Transactions.Record(c.Request.Context(), user, req.ItemName, typ, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tr)
}

func (h *handlers) listTransactions(c *gin.Context) {
	list, err := h.deps.Transactions.List(c.Request.Context(), c.Query("item"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
