package handler

import (
	"net/http"

	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/service"

	"github.com/gin-gonic/gin"
)

type EmployeesHandler struct{ svc service.EmployeeService }

func NewEmployeesHandler(svc service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{svc: svc}
}

// List godoc
// @Summary Lista empleados
// @Tags empleados
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmployeeResponse
// @Failure 403 {object} apierror.APIError
// @Router /api/employees [get]
func (h *EmployeesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Crea un empleado
// @Tags empleados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateEmployeeRequest true "Empleado"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/employees [post]
func (h *EmployeesHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
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

// Update godoc
// @Summary Actualiza un empleado
// @Tags empleados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.UpdateEmployeeRequest true "Empleado"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/employees/{id} [put]
func (h *EmployeesHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
