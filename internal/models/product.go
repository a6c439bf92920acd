package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. CreatedAt is assigned once on insert
// and never written again; listings order by it descending.
type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"type:varchar(120);not null" validate:"required,max=120"`
	PriceEUR  decimal.Decimal `json:"price_eur" gorm:"type:decimal(8,2);not null" validate:"required"`
	Stock     int             `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt time.Time       `json:"created_at"`
}
