package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cajero"
)

// Employee is a system user. Login is by RUT.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	RUT          string    `gorm:"column:rut;uniqueIndex;not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	PasswordHash string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// FullName is the display name carried in tokens and audit entries.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
