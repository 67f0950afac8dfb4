package model

import "time"

// User is a consigner or administrator account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Code         string    `json:"code" gorm:"uniqueIndex;size:6;not null"` // short consigner code, e.g. C01
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"` // Never expose in JSON
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	PhoneNumber  string    `json:"phone_number,omitempty" gorm:"size:20"`
	AddressLine1 string    `json:"address_line1,omitempty" gorm:"size:150"`
	AddressLine2 string    `json:"address_line2,omitempty" gorm:"size:150"`
	City         string    `json:"city,omitempty" gorm:"size:100"`
	State        string    `json:"state,omitempty" gorm:"size:50"`
	ZipCode      string    `json:"zip_code,omitempty" gorm:"size:20"`

	// Relations
	Parts []Part `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
