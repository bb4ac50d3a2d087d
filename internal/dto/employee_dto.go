package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	RUT       string `json:"rut"        validate:"required,min=3,max=20"`
	Role      string `json:"role"       validate:"required,oneof=admin cajero"`
	Password  string `json:"password"   validate:"required,min=4"`
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	RUT       string `json:"rut"        validate:"required,min=3,max=20"`
	Role      string `json:"role"       validate:"required,oneof=admin cajero"`
	IsActive  *bool  `json:"is_active"  validate:"required"`
	Password  string `json:"password"   validate:"omitempty,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	RUT       string    `json:"rut"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
