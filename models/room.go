package models

import (
	"fmt"
	"time"
)

// SharingType is the bed-capacity category of a room: 1 = single ... 6 = six-way shared.
type SharingType int

const (
	SharingSingle SharingType = iota + 1
	SharingDouble
	SharingTriple
	SharingFour
	SharingFive
	SharingSix
)

var sharingTypeNames = map[SharingType]string{
	SharingSingle: "Single",
	SharingDouble: "Double",
	SharingTriple: "Triple",
	SharingFour:   "Four",
	SharingFive:   "Five",
	SharingSix:    "Six",
}

func (s SharingType) Valid() bool {
	return s >= SharingSingle && s <= SharingSix
}

func (s SharingType) String() string {
	if name, ok := sharingTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SharingType(%d)", int(s))
}

const (
	MinTotalBeds = 1
	MaxTotalBeds = 10
)

type Room struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"not null;uniqueIndex:idx_room_account_number" json:"-"`

	RoomNumber   int         `gorm:"column:room_number;not null;uniqueIndex:idx_room_account_number" json:"roomNumber"`
	SharingType  SharingType `gorm:"column:sharing_type;not null" json:"sharingType"`
	TotalBeds    int         `gorm:"column:total_beds;not null" json:"totalBeds"`
	OccupiedBeds int         `gorm:"column:occupied_beds;not null;default:0" json:"occupiedBeds"`
	RentPerBed   int         `gorm:"column:rent_per_bed;default:0" json:"rentPerBed"`
	Floor        int         `gorm:"column:floor;default:0" json:"floor"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Tenants is restrict-delete: a room is only removed once none of its tenants is active.
	Tenants []Tenant `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (r Room) AvailableBeds() int {
	return r.TotalBeds - r.OccupiedBeds
}

func (r Room) IsAvailable() bool {
	return r.OccupiedBeds < r.TotalBeds
}
