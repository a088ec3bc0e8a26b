package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff account. Deletion is always soft: DeletedAt is set
// and the record stays in place, so username uniqueness is enforced among
// active rows by the service layer rather than by a database constraint.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"size:255;not null;index"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsAdmin      bool           `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
