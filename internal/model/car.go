package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Car is a rental catalog vehicle. DailyRate is the base price per day in USD;
// price snapshots freeze the rate at fetch time, so later edits here never
// rewrite history.
type Car struct {
	ID             uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	Brand          string            `json:"brand" gorm:"size:255;not null;index"`
	Model          string            `json:"model" gorm:"size:255;not null"`
	Year           int               `json:"year" gorm:"not null;index"`
	Category       string            `json:"category" gorm:"size:100;not null;index"`
	DailyRate      float64           `json:"daily_rate" gorm:"not null"`
	Specifications map[string]string `json:"specifications" gorm:"serializer:json"`
	ImageURL       string            `json:"image_url" gorm:"size:512"`
	ImagePath      string            `json:"-" gorm:"size:512"`
	IsAvailable    bool              `json:"is_available" gorm:"default:true"`
	ApiData        []byte            `json:"-" gorm:"type:json"` // raw car-specs payload, kept for display
	LastUpdated    time.Time         `json:"last_updated"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// BeforeCreate sets the UUID before inserting the record.
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
