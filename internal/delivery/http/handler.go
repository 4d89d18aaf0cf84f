package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liadelivery/backend/internal/domain"
	"github.com/liadelivery/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	interpreter *usecase.Interpreter
	orders      *usecase.OrderService
	catalogSync *usecase.CatalogSyncService
}

// NewHandler creates a new HTTP handler
func NewHandler(interpreter *usecase.Interpreter, orders *usecase.OrderService, catalogSync *usecase.CatalogSyncService) *Handler {
	return &Handler{
		interpreter: interpreter,
		orders:      orders,
		catalogSync: catalogSync,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lia-delivery-backend",
	})
}

// interpretRequest is the body of POST /api/v1/orders/interpret.
type interpretRequest struct {
	Text string `json:"texto" binding:"required"`
}

// InterpretOrder interprets free order text into validated items. The
// interpreter itself never fails; a malformed body is the only 4xx here.
func (h *Handler) InterpretOrder(c *gin.Context) {
	var req interpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campo 'texto' é obrigatório"})
		return
	}

	result := h.interpreter.Interpret(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, result)
}

// submitOrderRequest is the body of POST /api/v1/orders.
type submitOrderRequest struct {
	OrderID      string                 `json:"order_id" binding:"required"`
	CustomerName string                 `json:"nome"`
	Phone        string                 `json:"telefone"`
	DeliveryType string                 `json:"tipo_entrega"`
	Items        []domain.ValidatedItem `json:"itens" binding:"required"`
	DeliveryFee  float64                `json:"taxa_entrega"`
	Discount     float64                `json:"desconto"`
}

// SubmitOrder sends a validated order to the POS.
func (h *Handler) SubmitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.orders.Submit(c.Request.Context(), usecase.OrderRequest{
		OrderID:      req.OrderID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		DeliveryType: req.DeliveryType,
		Items:        req.Items,
		DeliveryFee:  req.DeliveryFee,
		Discount:     req.Discount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshCatalog re-syncs the menu index from the POS catalog and
// invalidates the matcher snapshot.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	inserted, err := h.catalogSync.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}
