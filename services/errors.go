package services

import (
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account_not_found")
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrTenantNotFound  = errors.New("tenant_not_found")
	ErrNewRoomNotFound = errors.New("new_room_not_found")

	ErrCapacityExceeded = errors.New("capacity_exceeded")
	ErrRoomFull         = errors.New("room_full")

	ErrSharingTypeMismatch = errors.New("sharing_type_mismatch")

	ErrRoomHasActiveTenants   = errors.New("room_has_active_tenants")
	ErrDuplicateRoomNumber    = errors.New("duplicate_room_number")
	ErrTotalBedsBelowOccupied = errors.New("total_beds_below_occupied")

	ErrInvalidInput = errors.New("invalid_input")
)

// ErrorKind groups the sentinel errors by how a caller should react to them.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindCapacity
	KindSharingTypeMismatch
	KindStateConflict
	KindInvalidInput
)

// KindOf classifies err; anything that is not a domain error is KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrTenantNotFound),
		errors.Is(err, ErrNewRoomNotFound):
		return KindNotFound
	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrRoomFull):
		return KindCapacity
	case errors.Is(err, ErrSharingTypeMismatch):
		return KindSharingTypeMismatch
	case errors.Is(err, ErrRoomHasActiveTenants),
		errors.Is(err, ErrDuplicateRoomNumber),
		errors.Is(err, ErrTotalBedsBelowOccupied):
		return KindStateConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	}
	return KindInternal
}

// isDuplicateKeyError recognises unique-index violations from any of the
// supported drivers.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysqldrv.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique constraint")
}
