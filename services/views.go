package services

import (
	"time"

	"github.com/debasish218/pg-manager/models"
)

const dateLayout = "2006-01-02"

// TenantView is a tenant as returned to callers: stored fields plus the due
// summary computed for the request's "now".
type TenantView struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	PhoneNumber     string             `json:"phoneNumber"`
	SharingType     models.SharingType `json:"sharingType"`
	SharingTypeName string             `json:"sharingTypeName"`
	RoomID          uint               `json:"roomId"`
	RoomNumber      int                `json:"roomNumber"`
	RentAmount      int                `json:"rentAmount"`
	AdvanceAmount   int                `json:"advanceAmount"`
	JoinDate        string             `json:"joinDate"`
	LastPaidDate    *string            `json:"lastPaidDate"`
	IsActive        bool               `json:"isActive"`
	DueAmount       int                `json:"dueAmount"`
	models.DueSummary
	CreatedAt time.Time `json:"createdAt"`
}

func newTenantView(t models.Tenant, roomNumber int, now time.Time) TenantView {
	v := TenantView{
		ID:              t.ID,
		Name:            t.Name,
		PhoneNumber:     t.PhoneNumber,
		SharingType:     t.SharingType,
		SharingTypeName: t.SharingType.String(),
		RoomID:          t.RoomID,
		RoomNumber:      roomNumber,
		RentAmount:      t.RentAmount,
		AdvanceAmount:   t.AdvanceAmount,
		JoinDate:        time.Time(t.JoinDate).Format(dateLayout),
		IsActive:        t.IsActive,
		DueAmount:       t.DueAmount,
		DueSummary:      t.Due(now),
		CreatedAt:       t.CreatedAt,
	}
	if t.LastPaidDate != nil {
		paid := time.Time(*t.LastPaidDate).Format(dateLayout)
		v.LastPaidDate = &paid
	}
	return v
}

type RoomView struct {
	ID              uint               `json:"id"`
	RoomNumber      int                `json:"roomNumber"`
	SharingType     models.SharingType `json:"sharingType"`
	SharingTypeName string             `json:"sharingTypeName"`
	TotalBeds       int                `json:"totalBeds"`
	OccupiedBeds    int                `json:"occupiedBeds"`
	AvailableBeds   int                `json:"availableBeds"`
	IsAvailable     bool               `json:"isAvailable"`
	ActiveTenants   int                `json:"activeTenants"`
	RentPerBed      int                `json:"rentPerBed"`
	Floor           int                `json:"floor"`
	CreatedAt       time.Time          `json:"createdAt"`
	Tenants         []TenantView       `json:"tenants,omitempty"`
}

// newRoomView expects r.Tenants to hold only the room's active tenants.
func newRoomView(r models.Room, now time.Time) RoomView {
	v := RoomView{
		ID:              r.ID,
		RoomNumber:      r.RoomNumber,
		SharingType:     r.SharingType,
		SharingTypeName: r.SharingType.String(),
		TotalBeds:       r.TotalBeds,
		OccupiedBeds:    r.OccupiedBeds,
		AvailableBeds:   r.AvailableBeds(),
		IsAvailable:     r.IsAvailable(),
		ActiveTenants:   len(r.Tenants),
		RentPerBed:      r.RentPerBed,
		Floor:           r.Floor,
		CreatedAt:       r.CreatedAt,
	}
	for _, t := range r.Tenants {
		v.Tenants = append(v.Tenants, newTenantView(t, r.RoomNumber, now))
	}
	return v
}
