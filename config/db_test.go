package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debasish218/pg-manager/models"
)

func TestConnectMigrateSeed_SQLite(t *testing.T) {
	db, err := ConnectDatabase(DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	ctx := context.Background()
	require.NoError(t, SeedDatabase(ctx, db))
	// a second run leaves existing data alone
	require.NoError(t, SeedDatabase(ctx, db))

	var accounts, rooms, tenants int64
	require.NoError(t, db.Model(&models.Account{}).Count(&accounts).Error)
	require.NoError(t, db.Model(&models.Room{}).Count(&rooms).Error)
	require.NoError(t, db.Model(&models.Tenant{}).Count(&tenants).Error)
	assert.EqualValues(t, 1, accounts)
	assert.EqualValues(t, 3, rooms)
	assert.EqualValues(t, 2, tenants)

	var occupied int64
	require.NoError(t, db.Model(&models.Room{}).Select("COALESCE(SUM(occupied_beds), 0)").Scan(&occupied).Error)
	assert.EqualValues(t, 2, occupied)
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector(DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}
