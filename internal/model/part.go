package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartStatus is the sale status of a part.
type PartStatus = string

const (
	PartStatusSold   PartStatus = "Sold"
	PartStatusUnsold PartStatus = "Unsold"
)

// Part is a single consigned item owned by a consigner.
//
// At most one of CommissionPercentage or FixedFee is meant to be set;
// this is enforced at write time, but legacy imports may carry both,
// in which case the fixed fee wins during invoicing.
type Part struct {
	ID                   uint                `json:"id" gorm:"primaryKey"`
	PartNumber           string              `json:"part_number" gorm:"size:50;index"`
	SerialNumber         string              `json:"serial_number" gorm:"size:50"`
	Description          string              `json:"description" gorm:"size:255"`
	Notes                string              `json:"notes" gorm:"type:text"`
	Condition            string              `json:"condition" gorm:"size:20"` // short code like AR/SV, or literal "N/A"
	Price                decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);default:0"`
	Shipping             decimal.NullDecimal `json:"shipping" gorm:"type:decimal(10,2)"`
	DateAdded            *time.Time          `json:"date_added" gorm:"type:date"`
	DateSold             *time.Time          `json:"date_sold" gorm:"type:date"`
	Status               PartStatus          `json:"status" gorm:"size:20;default:'Unsold';index"`
	CommissionPercentage decimal.NullDecimal `json:"commission_percentage" gorm:"type:decimal(5,2)"`
	FixedFee             decimal.NullDecimal `json:"fixed_fee" gorm:"type:decimal(10,2)"`
	InvoiceNumber        string              `json:"invoice_number" gorm:"size:50"`
	UserID               uint                `json:"user_id" gorm:"not null;index"`

	// Relations
	Consigner User `json:"-" gorm:"foreignKey:UserID"`
}

// ShippingOrZero returns the part's own shipping cost, treating an
// unset value as zero for invoice arithmetic.
func (p *Part) ShippingOrZero() decimal.Decimal {
	if p.Shipping.Valid {
		return p.Shipping.Decimal
	}
	return decimal.Zero
}
