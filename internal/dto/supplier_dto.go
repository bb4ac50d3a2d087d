package dto

import "time"

type SupplierRequest struct {
	Name          string  `json:"name"           validate:"required,min=1,max=200"`
	RUT           *string `json:"rut"            validate:"omitempty,max=20"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	Phone         *string `json:"phone"          validate:"omitempty,max=30"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"        validate:"omitempty,max=255"`
}

type SupplierResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	RUT           *string   `json:"rut"`
	ContactPerson *string   `json:"contact_person"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
}
