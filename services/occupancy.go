package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/debasish218/pg-manager/models"
)

// Every change to rooms.occupied_beds goes through claimBed or releaseBed,
// always on a *gorm.DB that is inside a transaction, with the room row
// already locked by lockRoom/lockRooms.

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockRoom loads one room of the account and holds its row lock until the
// surrounding transaction ends.
func lockRoom(tx *gorm.DB, accountID, roomID uint) (*models.Room, error) {
	var room models.Room
	err := forUpdate(tx).
		Where("account_id = ? AND id = ?", accountID, roomID).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock room %d: %w", roomID, err)
	}
	return &room, nil
}

// lockRooms locks several rooms in ascending id order so two transfers in
// opposite directions cannot deadlock. Missing rooms are absent from the map.
func lockRooms(tx *gorm.DB, accountID uint, ids ...uint) (map[uint]*models.Room, error) {
	var rooms []models.Room
	err := forUpdate(tx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("lock rooms %v: %w", ids, err)
	}
	out := make(map[uint]*models.Room, len(rooms))
	for i := range rooms {
		out[rooms[i].ID] = &rooms[i]
	}
	return out, nil
}

func lockTenant(tx *gorm.DB, accountID, tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := forUpdate(tx).
		Where("account_id = ? AND id = ?", accountID, tenantID).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock tenant %d: %w", tenantID, err)
	}
	return &tenant, nil
}

// claimBed takes one bed in room. The update only matches while a bed is
// free, so a lost race surfaces as full instead of overbooking the room.
func claimBed(tx *gorm.DB, room *models.Room, full error) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND occupied_beds < total_beds", room.ID).
		Update("occupied_beds", gorm.Expr("occupied_beds + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("claim bed in room %d: %w", room.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return full
	}
	room.OccupiedBeds++
	return nil
}

// releaseBed frees one bed in room. A counter that is already zero means the
// stored count has drifted from the tenants; that is logged for the occupancy
// audit and the release itself still succeeds.
func releaseBed(tx *gorm.DB, room *models.Room) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND occupied_beds > 0", room.ID).
		Update("occupied_beds", gorm.Expr("occupied_beds - ?", 1))
	if res.Error != nil {
		return fmt.Errorf("release bed in room %d: %w", room.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Error().
			Uint("room_id", room.ID).
			Int("room_number", room.RoomNumber).
			Msg("releasing a bed from a room whose occupied count is already zero")
		return nil
	}
	room.OccupiedBeds--
	return nil
}
