package handler

import (
	"net/http"

	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/service"

	"github.com/gin-gonic/gin"
)

const msgNothingToClose = "No hay sesión activa para cerrar."

type CashSessionHandler struct{ svc service.CashSessionService }

func NewCashSessionHandler(svc service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{svc: svc}
}

// GetActive godoc
// @Summary Devuelve la sesión de caja activa (null si no hay)
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CashSessionResponse
// @Router /api/cash-sessions/active [get]
func (h *CashSessionHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Start godoc
// @Summary Abre la caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Monto inicial"
// @Success 201 {object} dto.CashSessionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/cash-sessions/start [post]
func (h *CashSessionHandler) Start(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), actorFrom(c), req.StartAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Cierra la caja activa; sin caja activa responde un mensaje
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CashSessionResponse
// @Router /api/cash-sessions/close [post]
func (h *CashSessionHandler) Close(c *gin.Context) {
	resp, err := h.svc.Close(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: msgNothingToClose})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movement godoc
// @Summary Agrega o retira efectivo con autorización de administrador
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CashMovementRequest true "Movimiento"
// @Success 200 {object} dto.CashSessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/cash-movements [post]
func (h *CashSessionHandler) Movement(c *gin.Context) {
	var req dto.CashMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyMovement(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns closed sessions, newest first.
func (h *CashSessionHandler) History(c *gin.Context) {
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements lists the ledger of one session.
func (h *CashSessionHandler) Movements(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
