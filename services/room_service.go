package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/debasish218/pg-manager/models"
)

type RoomService struct {
	DB  *gorm.DB
	Now Clock
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db, Now: SystemClock}
}

type CreateRoomInput struct {
	RoomNumber  int
	SharingType models.SharingType
	TotalBeds   int
	RentPerBed  int
	Floor       int
}

type RoomPatch struct {
	RoomNumber  *int
	SharingType *models.SharingType
	TotalBeds   *int
	RentPerBed  *int
	Floor       *int
}

type RoomFilter struct {
	Search      string // matched against the room number
	SharingType *models.SharingType
}

// OccupancyDrift is a room whose stored occupied count disagrees with its
// active tenants.
type OccupancyDrift struct {
	RoomID        uint `json:"roomId"`
	RoomNumber    int  `json:"roomNumber"`
	OccupiedBeds  int  `json:"occupiedBeds"`
	ActiveTenants int  `json:"activeTenants"`
}

func validateBeds(totalBeds int) error {
	if totalBeds < models.MinTotalBeds || totalBeds > models.MaxTotalBeds {
		return fmt.Errorf("%w: total beds must be between %d and %d", ErrInvalidInput, models.MinTotalBeds, models.MaxTotalBeds)
	}
	return nil
}

func validateSharing(st models.SharingType) error {
	if !st.Valid() {
		return fmt.Errorf("%w: sharing type must be between 1 and 6", ErrInvalidInput)
	}
	return nil
}

func roomNumberTaken(tx *gorm.DB, accountID uint, number int, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Room{}).Where("account_id = ? AND room_number = ?", accountID, number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check room number: %w", err)
	}
	return count > 0, nil
}

func (s *RoomService) Create(ctx context.Context, accountID uint, in CreateRoomInput) (*RoomView, error) {
	if err := validateSharing(in.SharingType); err != nil {
		return nil, err
	}
	if err := validateBeds(in.TotalBeds); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	taken, err := roomNumberTaken(db, accountID, in.RoomNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: room %d", ErrDuplicateRoomNumber, in.RoomNumber)
	}

	room := models.Room{
		AccountID:    accountID,
		RoomNumber:   in.RoomNumber,
		SharingType:  in.SharingType,
		TotalBeds:    in.TotalBeds,
		OccupiedBeds: 0,
		RentPerBed:   in.RentPerBed,
		Floor:        in.Floor,
	}
	if err := db.Create(&room).Error; err != nil {
		// a concurrent create can still win the unique index
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: room %d", ErrDuplicateRoomNumber, in.RoomNumber)
		}
		return nil, fmt.Errorf("create room: %w", err)
	}

	log.Info().Uint("account_id", accountID).Uint("room_id", room.ID).Int("room_number", room.RoomNumber).Msg("room created")

	view := newRoomView(room, s.Now())
	return &view, nil
}

// Update edits a room. Total beds may never drop below the beds in use, and a
// new sharing type is carried over to the room's tenants.
func (s *RoomService) Update(ctx context.Context, accountID, roomID uint, patch RoomPatch) (*RoomView, error) {
	var room *models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, accountID, roomID)
		if err != nil {
			return err
		}

		if patch.RoomNumber != nil && *patch.RoomNumber != room.RoomNumber {
			taken, err := roomNumberTaken(tx, accountID, *patch.RoomNumber, room.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: room %d", ErrDuplicateRoomNumber, *patch.RoomNumber)
			}
			room.RoomNumber = *patch.RoomNumber
		}

		if patch.SharingType != nil && *patch.SharingType != room.SharingType {
			if err := validateSharing(*patch.SharingType); err != nil {
				return err
			}
			room.SharingType = *patch.SharingType
			if err := tx.Model(&models.Tenant{}).
				Where("account_id = ? AND room_id = ?", accountID, room.ID).
				Update("sharing_type", room.SharingType).Error; err != nil {
				return fmt.Errorf("update tenant sharing type: %w", err)
			}
		}

		if patch.TotalBeds != nil {
			if err := validateBeds(*patch.TotalBeds); err != nil {
				return err
			}
			if *patch.TotalBeds < room.OccupiedBeds {
				return fmt.Errorf("%w: %d beds are occupied", ErrTotalBedsBelowOccupied, room.OccupiedBeds)
			}
			room.TotalBeds = *patch.TotalBeds
		}

		if patch.RentPerBed != nil {
			room.RentPerBed = *patch.RentPerBed
		}
		if patch.Floor != nil {
			room.Floor = *patch.Floor
		}

		// occupied_beds is left out: only claimBed/releaseBed move it
		if err := tx.Model(room).Select("room_number", "sharing_type", "total_beds", "rent_per_bed", "floor").
			Updates(room).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: room %d", ErrDuplicateRoomNumber, room.RoomNumber)
			}
			return fmt.Errorf("save room %d: %w", room.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("account_id", accountID).Uint("room_id", roomID).Msg("room updated")
	return s.Get(ctx, accountID, roomID)
}

// Delete removes a room that has no active tenant. Its inactive tenants are
// deleted with it.
func (s *RoomService) Delete(ctx context.Context, accountID, roomID uint) error {
	var removedTenants int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, accountID, roomID)
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Tenant{}).
			Where("account_id = ? AND room_id = ? AND is_active = ?", accountID, room.ID, true).
			Count(&active).Error; err != nil {
			return fmt.Errorf("count active tenants: %w", err)
		}
		if active > 0 {
			return fmt.Errorf("%w: %d active tenant(s) in room %d", ErrRoomHasActiveTenants, active, room.RoomNumber)
		}

		res := tx.Where("account_id = ? AND room_id = ?", accountID, room.ID).Delete(&models.Tenant{})
		if res.Error != nil {
			return fmt.Errorf("delete tenants of room %d: %w", room.ID, res.Error)
		}
		removedTenants = res.RowsAffected

		if err := tx.Delete(room).Error; err != nil {
			return fmt.Errorf("delete room %d: %w", room.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Uint("account_id", accountID).
		Uint("room_id", roomID).
		Int64("inactive_tenants_removed", removedTenants).
		Msg("room deleted")
	return nil
}

func (s *RoomService) Get(ctx context.Context, accountID, roomID uint) (*RoomView, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).
		Preload("Tenants", "is_active = ?", true).
		Where("account_id = ? AND id = ?", accountID, roomID).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	view := newRoomView(room, s.Now())
	return &view, nil
}

// List returns the account's rooms ordered by room number. A numeric search
// term matches the room number exactly; anything else is ignored.
func (s *RoomService) List(ctx context.Context, accountID uint, filter RoomFilter) ([]RoomView, error) {
	q := s.DB.WithContext(ctx).
		Preload("Tenants", "is_active = ?", true).
		Where("account_id = ?", accountID)
	if n, err := strconv.Atoi(strings.TrimSpace(filter.Search)); err == nil {
		q = q.Where("room_number = ?", n)
	}
	if filter.SharingType != nil {
		q = q.Where("sharing_type = ?", *filter.SharingType)
	}

	var rooms []models.Room
	if err := q.Order("room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return s.views(rooms), nil
}

// Available lists rooms of one sharing type that still have a free bed.
func (s *RoomService) Available(ctx context.Context, accountID uint, sharing models.SharingType) ([]RoomView, error) {
	if err := validateSharing(sharing); err != nil {
		return nil, err
	}
	var rooms []models.Room
	err := s.DB.WithContext(ctx).
		Preload("Tenants", "is_active = ?", true).
		Where("account_id = ? AND sharing_type = ? AND occupied_beds < total_beds", accountID, sharing).
		Order("room_number").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve available rooms: %w", err)
	}
	return s.views(rooms), nil
}

// Audit compares every room's stored occupied count with its active tenants
// and returns the rooms that disagree. It reports; it never corrects.
func (s *RoomService) Audit(ctx context.Context, accountID uint) ([]OccupancyDrift, error) {
	var rows []OccupancyDrift
	err := s.DB.WithContext(ctx).
		Table("rooms").
		Select("rooms.id AS room_id, rooms.room_number, rooms.occupied_beds, COUNT(tenants.id) AS active_tenants").
		Joins("LEFT JOIN tenants ON tenants.room_id = rooms.id AND tenants.is_active = ?", true).
		Where("rooms.account_id = ?", accountID).
		Group("rooms.id, rooms.room_number, rooms.occupied_beds").
		Order("rooms.room_number").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("audit occupancy: %w", err)
	}

	drift := make([]OccupancyDrift, 0)
	for _, r := range rows {
		if r.OccupiedBeds != r.ActiveTenants {
			drift = append(drift, r)
		}
	}
	if len(drift) > 0 {
		log.Warn().Uint("account_id", accountID).Int("rooms", len(drift)).Msg("occupancy drift detected")
	}
	return drift, nil
}

func (s *RoomService) views(rooms []models.Room) []RoomView {
	now := s.Now()
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, newRoomView(r, now))
	}
	return out
}
