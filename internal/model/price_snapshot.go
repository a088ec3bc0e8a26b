package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceSnapshot is an immutable record of multi-currency prices for one car,
// computed once from the vehicle's daily rate and a single exchange-rate
// fetch. Rows are append-only: never updated, never upserted. "Latest" is
// whichever row has the greatest RequestTimestamp.
type PriceSnapshot struct {
	ID               uuid.UUID          `json:"id" gorm:"type:char(36);primaryKey"`
	CarID            uuid.UUID          `json:"car_id" gorm:"type:char(36);not null;index:idx_snapshot_car_ts"`
	BaseCurrency     string             `json:"base_currency" gorm:"size:10;not null"`
	ExchangeRates    map[string]float64 `json:"exchange_rates" gorm:"serializer:json"`
	CalculatedPrices map[string]float64 `json:"calculated_prices" gorm:"serializer:json"`
	RawResponse      []byte             `json:"-" gorm:"type:json"` // upstream payload, retained for audit
	RequestTimestamp time.Time          `json:"request_timestamp" gorm:"not null;index:idx_snapshot_car_ts"`
	CreatedAt        time.Time          `json:"created_at"`
}

// BeforeCreate sets the UUID before inserting the record.
func (p *PriceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
