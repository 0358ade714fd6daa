package models

import "time"

// Account is the owner of a PG: every Room and Tenant belongs to exactly one.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:15;uniqueIndex" json:"phoneNumber"`
	Name        string    `gorm:"size:100" json:"name"`
	PgName      string    `gorm:"size:150" json:"pgName"`
	Role        string    `gorm:"size:30;default:owner" json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Rooms   []Room   `gorm:"foreignKey:AccountID" json:"-"`
	Tenants []Tenant `gorm:"foreignKey:AccountID" json:"-"`
}
