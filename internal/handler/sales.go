package handler

import (
	"net/http"

	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct {
	sales    service.SaleService
	receipts service.ReceiptService
}

func NewSalesHandler(sales service.SaleService, receipts service.ReceiptService) *SalesHandler {
	return &SalesHandler{sales: sales, receipts: receipts}
}

// Create godoc
// @Summary Registra una venta
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ProcessSaleRequest true "Venta"
// @Success 201 {object} dto.ProcessSaleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /api/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.ProcessSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.ProcessSale(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Activity godoc
// @Summary Ventas y registro de actividad, más recientes primero
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {array} dto.ActivityItem
// @Router /api/sales [get]
func (h *SalesHandler) Activity(c *gin.Context) {
	var filter dto.ActivityFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, err := h.sales.ActivityFeed(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PrintReceipt godoc
// @Summary Encola la impresión (y envío por correo) del recibo
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PrintReceiptRequest true "Venta"
// @Success 202 {object} dto.MessageResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/print-receipt [post]
func (h *SalesHandler) PrintReceipt(c *gin.Context) {
	var req dto.PrintReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	saleID := uuid.MustParse(req.SaleID)
	msg, err := h.receipts.Print(c.Request.Context(), saleID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: msg})
}
