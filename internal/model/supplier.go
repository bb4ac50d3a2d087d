package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null"`
	RUT           *string   `gorm:"column:rut"`
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	CreatedAt     time.Time
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
