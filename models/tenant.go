package models

import (
	"time"

	"gorm.io/datatypes"
)

type Tenant struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"not null;index" json:"-"`
	RoomID    uint `gorm:"column:room_id;not null;index" json:"roomId"`

	Name          string      `gorm:"size:100;not null" json:"name"`
	PhoneNumber   string      `gorm:"size:15;not null" json:"phoneNumber"`
	SharingType   SharingType `gorm:"column:sharing_type;not null" json:"sharingType"`
	RentAmount    int         `gorm:"column:rent_amount;not null" json:"rentAmount"`
	AdvanceAmount int         `gorm:"column:advance_amount;default:0" json:"advanceAmount"`

	JoinDate     datatypes.Date  `gorm:"column:join_date;not null" json:"joinDate"`
	LastPaidDate *datatypes.Date `gorm:"column:last_paid_date" json:"lastPaidDate"`

	// no gorm default here: a default would make gorm skip an explicit false on insert
	IsActive bool `gorm:"column:is_active;not null;index" json:"isActive"`

	// DueAmount is the unpaid residual as of LastPaidDate, not including rent
	// accrued since then. Negative means the tenant has credit.
	DueAmount int `gorm:"column:due_amount;not null;default:0" json:"dueAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DueInput extracts the fields the due calculation depends on.
func (t Tenant) DueInput() DueInput {
	in := DueInput{
		JoinDate:   time.Time(t.JoinDate),
		RentAmount: t.RentAmount,
		DueAmount:  t.DueAmount,
	}
	if t.LastPaidDate != nil {
		paid := time.Time(*t.LastPaidDate)
		in.LastPaidDate = &paid
	}
	return in
}

// Due returns the tenant's due summary as of now.
func (t Tenant) Due(now time.Time) DueSummary {
	return ComputeDue(t.DueInput(), now)
}

// NewDate truncates t to its calendar date for storage.
func NewDate(t time.Time) datatypes.Date {
	return datatypes.Date(CivilDate(t))
}

// DatePtr is NewDate for nullable columns.
func DatePtr(t time.Time) *datatypes.Date {
	d := NewDate(t)
	return &d
}
