package handler

import (
	"net/http"

	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Purchase orders ──────────────────────────────────────────────────────────

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Crea una orden de compra a proveedor
// @Tags ordenes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePurchaseOrderRequest true "Orden"
// @Success 201 {object} dto.PurchaseOrderResponse
// @Router /api/purchase-orders [post]
func (h *PurchaseOrdersHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Receive godoc
// @Summary Registra la recepción (parcial o completa) de una orden
// @Tags ordenes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.ReceivePurchaseOrderRequest true "Cantidades recibidas"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /api/purchase-orders/{id}/receive [put]
func (h *PurchaseOrdersHandler) Receive(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ReceivePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Receive(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Customer orders ──────────────────────────────────────────────────────────

type CustomerOrdersHandler struct{ svc service.CustomerOrderService }

func NewCustomerOrdersHandler(svc service.CustomerOrderService) *CustomerOrdersHandler {
	return &CustomerOrdersHandler{svc: svc}
}

func (h *CustomerOrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Registra un pedido de cliente
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCustomerOrderRequest true "Pedido"
// @Success 201 {object} dto.CustomerOrderResponse
// @Router /api/customer-orders [post]
func (h *CustomerOrdersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomerOrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Estado del pedido actualizado."})
}
