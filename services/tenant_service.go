package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/debasish218/pg-manager/models"
)

// TenantService owns every tenant write. Occupancy changes caused by those
// writes are applied in the same transaction as the tenant row.
type TenantService struct {
	DB  *gorm.DB
	Now Clock
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{DB: db, Now: SystemClock}
}

type CreateTenantInput struct {
	Name          string
	PhoneNumber   string
	SharingType   models.SharingType
	RoomID        uint
	RentAmount    int
	AdvanceAmount int
	JoinDate      time.Time
	LastPaidDate  *time.Time
	IsActive      *bool // nil means active
	DueAmount     int
}

func (in CreateTenantInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(in.PhoneNumber) == "":
		return fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	case !in.SharingType.Valid():
		return fmt.Errorf("%w: sharing type must be between 1 and 6", ErrInvalidInput)
	case in.RoomID == 0:
		return fmt.Errorf("%w: room id is required", ErrInvalidInput)
	case in.RentAmount < 0 || in.AdvanceAmount < 0:
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	case in.JoinDate.IsZero():
		return fmt.Errorf("%w: join date is required", ErrInvalidInput)
	}
	return nil
}

// TenantPatch carries the fields of an update; nil fields are left alone.
type TenantPatch struct {
	Name          *string
	PhoneNumber   *string
	RentAmount    *int
	AdvanceAmount *int
	LastPaidDate  *time.Time
	IsActive      *bool
	RoomID        *uint
	DueAmount     *int
}

type TenantFilter struct {
	Search      string
	SharingType *models.SharingType
	IsActive    *bool
}

// Create adds a tenant to a room. The room must belong to the account, have a
// free bed and match the tenant's sharing type; an active tenant takes a bed.
func (s *TenantService) Create(ctx context.Context, accountID uint, in CreateTenantInput) (*TenantView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	active := in.IsActive == nil || *in.IsActive

	var (
		tenant models.Tenant
		room   *models.Room
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, accountID, in.RoomID)
		if err != nil {
			return err
		}
		if !room.IsAvailable() {
			return fmt.Errorf("%w: room %d has no free bed", ErrCapacityExceeded, room.RoomNumber)
		}
		if room.SharingType != in.SharingType {
			return fmt.Errorf("%w: room %d is %s sharing", ErrSharingTypeMismatch, room.RoomNumber, room.SharingType)
		}

		tenant = models.Tenant{
			AccountID:     accountID,
			RoomID:        room.ID,
			Name:          strings.TrimSpace(in.Name),
			PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
			SharingType:   in.SharingType,
			RentAmount:    in.RentAmount,
			AdvanceAmount: in.AdvanceAmount,
			JoinDate:      models.NewDate(in.JoinDate),
			IsActive:      active,
			DueAmount:     in.DueAmount,
		}
		if in.LastPaidDate != nil {
			tenant.LastPaidDate = models.DatePtr(*in.LastPaidDate)
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}

		if active {
			return claimBed(tx, room, ErrCapacityExceeded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("account_id", accountID).
		Uint("tenant_id", tenant.ID).
		Uint("room_id", room.ID).
		Bool("active", active).
		Msg("tenant created")

	view := newTenantView(tenant, room.RoomNumber, s.Now())
	return &view, nil
}

// Update applies patch in a fixed order: room transfer, activation change,
// profile fields, last paid date, due amount.
func (s *TenantService) Update(ctx context.Context, accountID, tenantID uint, patch TenantPatch) (*TenantView, error) {
	var (
		tenant     *models.Tenant
		roomNumber int
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tenant, err = lockTenant(tx, accountID, tenantID)
		if err != nil {
			return err
		}

		ids := []uint{tenant.RoomID}
		if patch.RoomID != nil && *patch.RoomID != tenant.RoomID {
			ids = append(ids, *patch.RoomID)
		}
		rooms, err := lockRooms(tx, accountID, ids...)
		if err != nil {
			return err
		}

		wasActive := tenant.IsActive

		if patch.RoomID != nil && *patch.RoomID != tenant.RoomID {
			newRoom, ok := rooms[*patch.RoomID]
			if !ok {
				return ErrNewRoomNotFound
			}
			if !newRoom.IsAvailable() {
				return fmt.Errorf("%w: room %d has no free bed", ErrRoomFull, newRoom.RoomNumber)
			}
			// an inactive tenant holds no bed in either room
			if tenant.IsActive {
				if oldRoom, ok := rooms[tenant.RoomID]; ok {
					if err := releaseBed(tx, oldRoom); err != nil {
						return err
					}
				}
				if err := claimBed(tx, newRoom, ErrRoomFull); err != nil {
					return err
				}
			}
			tenant.RoomID = newRoom.ID
			tenant.SharingType = newRoom.SharingType
		}

		if patch.IsActive != nil && *patch.IsActive != wasActive {
			if room, ok := rooms[tenant.RoomID]; ok {
				if *patch.IsActive {
					if err := claimBed(tx, room, ErrRoomFull); err != nil {
						return fmt.Errorf("activate tenant: %w", err)
					}
				} else if err := releaseBed(tx, room); err != nil {
					return err
				}
			}
			tenant.IsActive = *patch.IsActive
		}

		if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
			tenant.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.PhoneNumber != nil && strings.TrimSpace(*patch.PhoneNumber) != "" {
			tenant.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
		}
		if patch.RentAmount != nil {
			tenant.RentAmount = *patch.RentAmount
		}
		if patch.AdvanceAmount != nil {
			tenant.AdvanceAmount = *patch.AdvanceAmount
		}
		if patch.LastPaidDate != nil {
			paid := models.NewDate(*patch.LastPaidDate)
			// moving the anchor without a payment starts the residual over
			if tenant.LastPaidDate == nil || !time.Time(*tenant.LastPaidDate).Equal(time.Time(paid)) {
				tenant.DueAmount = 0
			}
			tenant.LastPaidDate = &paid
		}
		if patch.DueAmount != nil {
			tenant.DueAmount = *patch.DueAmount
		}

		if err := tx.Save(tenant).Error; err != nil {
			return fmt.Errorf("save tenant %d: %w", tenant.ID, err)
		}
		if room, ok := rooms[tenant.RoomID]; ok {
			roomNumber = room.RoomNumber
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("account_id", accountID).
		Uint("tenant_id", tenant.ID).
		Uint("room_id", tenant.RoomID).
		Bool("active", tenant.IsActive).
		Msg("tenant updated")

	view := newTenantView(*tenant, roomNumber, s.Now())
	return &view, nil
}

// RecordPayment settles paidAmount against the tenant's current due. The due
// is taken before lastPaidDate moves, since moving it drops the accrued months.
func (s *TenantService) RecordPayment(ctx context.Context, accountID, tenantID uint, paymentDate time.Time, paidAmount int) (*TenantView, error) {
	now := s.Now()

	var (
		tenant    *models.Tenant
		dueBefore int
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tenant, err = lockTenant(tx, accountID, tenantID)
		if err != nil {
			return err
		}

		dueBefore = tenant.Due(now).CurrentDue
		tenant.LastPaidDate = models.DatePtr(paymentDate)
		tenant.DueAmount = dueBefore - paidAmount

		if err := tx.Model(tenant).Updates(map[string]interface{}{
			"last_paid_date": tenant.LastPaidDate,
			"due_amount":     tenant.DueAmount,
		}).Error; err != nil {
			return fmt.Errorf("record payment for tenant %d: %w", tenantID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("account_id", accountID).
		Uint("tenant_id", tenantID).
		Int("due_before", dueBefore).
		Int("paid", paidAmount).
		Int("residual", tenant.DueAmount).
		Msg("payment recorded")

	numbers, err := s.roomNumbers(ctx, accountID, []models.Tenant{*tenant})
	if err != nil {
		return nil, err
	}
	view := newTenantView(*tenant, numbers[tenant.RoomID], now)
	return &view, nil
}

// Delete removes a tenant, freeing its bed first when it is active.
func (s *TenantService) Delete(ctx context.Context, accountID, tenantID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := lockTenant(tx, accountID, tenantID)
		if err != nil {
			return err
		}

		if tenant.IsActive {
			room, err := lockRoom(tx, accountID, tenant.RoomID)
			switch {
			case errors.Is(err, ErrRoomNotFound):
				// nothing to release
			case err != nil:
				return err
			default:
				if err := releaseBed(tx, room); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(tenant).Error; err != nil {
			return fmt.Errorf("delete tenant %d: %w", tenantID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Uint("account_id", accountID).Uint("tenant_id", tenantID).Msg("tenant deleted")
	return nil
}

func (s *TenantService) Get(ctx context.Context, accountID, tenantID uint) (*TenantView, error) {
	var tenant models.Tenant
	err := s.DB.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, tenantID).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	numbers, err := s.roomNumbers(ctx, accountID, []models.Tenant{tenant})
	if err != nil {
		return nil, err
	}
	view := newTenantView(tenant, numbers[tenant.RoomID], s.Now())
	return &view, nil
}

// List returns the account's tenants, active ones first and then by current
// due, highest first.
func (s *TenantService) List(ctx context.Context, accountID uint, filter TenantFilter) ([]TenantView, error) {
	q := s.DB.WithContext(ctx).Where("account_id = ?", accountID)
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("(name LIKE ? ESCAPE '!' OR phone_number LIKE ? ESCAPE '!')", like, like)
	}
	if filter.SharingType != nil {
		q = q.Where("sharing_type = ?", *filter.SharingType)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var tenants []models.Tenant
	if err := q.Order("id").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve tenants: %w", err)
	}

	views, err := s.views(ctx, accountID, tenants)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsActive != views[j].IsActive {
			return views[i].IsActive
		}
		return views[i].CurrentDue > views[j].CurrentDue
	})
	return views, nil
}

// Overdue returns active, overdue tenants, longest without payment first.
func (s *TenantService) Overdue(ctx context.Context, accountID uint) ([]TenantView, error) {
	var tenants []models.Tenant
	err := s.DB.WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Order("id").
		Find(&tenants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tenants: %w", err)
	}

	views, err := s.views(ctx, accountID, tenants)
	if err != nil {
		return nil, err
	}
	overdue := views[:0]
	for _, v := range views {
		if v.IsOverdue {
			overdue = append(overdue, v)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysSinceLastPayment > overdue[j].DaysSinceLastPayment
	})
	return overdue, nil
}

// likeEscaper makes % and _ in a search term match literally under ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func (s *TenantService) views(ctx context.Context, accountID uint, tenants []models.Tenant) ([]TenantView, error) {
	numbers, err := s.roomNumbers(ctx, accountID, tenants)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	out := make([]TenantView, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, newTenantView(t, numbers[t.RoomID], now))
	}
	return out, nil
}

func (s *TenantService) roomNumbers(ctx context.Context, accountID uint, tenants []models.Tenant) (map[uint]int, error) {
	numbers := make(map[uint]int)
	if len(tenants) == 0 {
		return numbers, nil
	}
	ids := make([]uint, 0, len(tenants))
	for _, t := range tenants {
		ids = append(ids, t.RoomID)
	}

	var rooms []models.Room
	err := s.DB.WithContext(ctx).
		Select("id", "room_number").
		Where("account_id = ? AND id IN ?", accountID, ids).
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load room numbers: %w", err)
	}
	for _, r := range rooms {
		numbers[r.ID] = r.RoomNumber
	}
	return numbers, nil
}
