package model

// InvoiceInfo is the billing entity printed on generated invoices.
// The table holds a single administratively managed row.
type InvoiceInfo struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Company      string `json:"company" gorm:"size:100;not null"`
	Email        string `json:"email" gorm:"size:120;not null"`
	PhoneNumber  string `json:"phone_number,omitempty" gorm:"size:20"`
	AddressLine1 string `json:"address_line1,omitempty" gorm:"size:150"`
	AddressLine2 string `json:"address_line2,omitempty" gorm:"size:150"`
	City         string `json:"city,omitempty" gorm:"size:100"`
	State        string `json:"state,omitempty" gorm:"size:50"`
	ZipCode      string `json:"zip_code,omitempty" gorm:"size:20"`
}
