package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/debasish218/pg-manager/models"
)

var testNow = time.Date(2024, 3, 12, 10, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every goroutine on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Room{}, &models.Tenant{}))
	return db
}

type fixture struct {
	db      *gorm.DB
	rooms   *RoomService
	tenants *TenantService
	account *models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	account, err := NewAccountService(db).Register(context.Background(), "9000000001", "Owner", "Sunrise PG")
	require.NoError(t, err)

	rooms := NewRoomService(db)
	rooms.Now = fixedClock(testNow)
	tenants := NewTenantService(db)
	tenants.Now = fixedClock(testNow)

	return &fixture{db: db, rooms: rooms, tenants: tenants, account: account}
}

func (f *fixture) room(t *testing.T, number int, sharing models.SharingType, beds int) *RoomView {
	t.Helper()
	room, err := f.rooms.Create(context.Background(), f.account.ID, CreateRoomInput{
		RoomNumber:  number,
		SharingType: sharing,
		TotalBeds:   beds,
		RentPerBed:  7000,
	})
	require.NoError(t, err)
	return room
}

func (f *fixture) tenantInput(name string, room *RoomView) CreateTenantInput {
	return CreateTenantInput{
		Name:        name,
		PhoneNumber: "98" + name,
		SharingType: room.SharingType,
		RoomID:      room.ID,
		RentAmount:  7000,
		JoinDate:    time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) tenant(t *testing.T, name string, room *RoomView) *TenantView {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), f.account.ID, f.tenantInput(name, room))
	require.NoError(t, err)
	return tenant
}

func (f *fixture) storedRoom(t *testing.T, id uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, f.db.First(&room, id).Error)
	return room
}

// requireOccupancyConsistent checks every room's stored count against its
// active tenants.
func (f *fixture) requireOccupancyConsistent(t *testing.T) {
	t.Helper()
	drift, err := f.rooms.Audit(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.Empty(t, drift)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int { return &i }
func uintPtr(u uint) *uint { return &u }
