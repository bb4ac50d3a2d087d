package handler

import (
	"net/http"

	"github.com/SoyuzCL/pos-panchita/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// Summary godoc
// @Summary Resumen de ventas del día
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SummaryResponse
// @Failure 403 {object} apierror.APIError
// @Router /api/reports/summary [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
