package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one priced row of a generated invoice.
type InvoiceLine struct {
	Description          string              `json:"description"`
	Quantity             int                 `json:"qty"`
	Price                decimal.Decimal     `json:"price"`
	CommissionPercentage decimal.NullDecimal `json:"commission"`
	FixedFee             decimal.NullDecimal `json:"fixed_fee"`
	Shipping             decimal.NullDecimal `json:"shipping"`
	Total                decimal.Decimal     `json:"total"`
	InvoiceNumber        string              `json:"invoice_number"`
}

// Invoice is the computed result of invoice generation, handed to the
// document renderer. It is not persisted; the only durable effect of
// generating an invoice is the invoice-number stamp on each part.
type Invoice struct {
	Number        string          `json:"invoice_number"`
	Date          time.Time       `json:"invoice_date"`
	PaymentMethod string          `json:"payment_method"`
	Consigner     *User           `json:"consigner"`
	Billing       *InvoiceInfo    `json:"billing"`
	Lines         []InvoiceLine   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	MiscFee       decimal.Decimal `json:"misc_fee"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}
