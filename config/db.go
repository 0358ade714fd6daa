package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/debasish218/pg-manager/models"
	"github.com/debasish218/pg-manager/services"
)

// gormLogWriter routes gorm's SQL log lines into zerolog.
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	cfg := mysqldrv.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	cfg.Addr = u.Hostname() + ":" + port
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if cfg.DBName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for key, values := range u.Query() {
		if len(values) > 0 {
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

func resolveMySQLDSN(db DatabaseConfig) (string, error) {
	if raw := strings.TrimSpace(db.URL); raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := mysqldrv.NewConfig()
	cfg.User = db.User
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = db.Host + ":" + db.Port
	cfg.DBName = db.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func resolvePostgresDSN(db DatabaseConfig) string {
	if raw := strings.TrimSpace(db.URL); raw != "" {
		return raw
	}
	port := db.Port
	if port == "" || port == "3306" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		db.Host, port, db.User, db.Password, db.Name)
}

// Dialector picks the gorm driver for the configured database.
func Dialector(db DatabaseConfig) (gorm.Dialector, error) {
	switch db.Driver {
	case "mysql":
		dsn, err := resolveMySQLDSN(db)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(resolvePostgresDSN(db)), nil
	case "sqlite":
		path := db.Path
		if strings.TrimSpace(db.URL) != "" {
			path = db.URL
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
}

// ConnectDatabase opens the configured database and applies the connection
// pool settings. It does not migrate.
func ConnectDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}
	gormLogger := logger.New(gormLogWriter{}, logger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer; one connection keeps transactions serialized
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connection established")
	return db, nil
}

// Migrate creates or updates the schema, parents before children.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Room{},
		&models.Tenant{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("database schema migrated")
	return nil
}

// SeedDatabase creates a demo account with a few rooms and tenants when the
// database has no account yet. Rows go through the services so the room
// counters stay consistent.
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		log.Info().Msg("accounts already present, skipping seed")
		return nil
	}

	account, err := services.NewAccountService(db).Register(ctx, "9999999999", "Demo Owner", "Demo PG")
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	rooms := services.NewRoomService(db)
	seedRooms := []services.CreateRoomInput{
		{RoomNumber: 101, SharingType: models.SharingSingle, TotalBeds: 1, RentPerBed: 9000, Floor: 1},
		{RoomNumber: 102, SharingType: models.SharingDouble, TotalBeds: 2, RentPerBed: 7000, Floor: 1},
		{RoomNumber: 201, SharingType: models.SharingTriple, TotalBeds: 3, RentPerBed: 5500, Floor: 2},
	}
	created := make([]*services.RoomView, 0, len(seedRooms))
	for _, in := range seedRooms {
		room, err := rooms.Create(ctx, account.ID, in)
		if err != nil {
			return fmt.Errorf("seed room %d: %w", in.RoomNumber, err)
		}
		created = append(created, room)
	}

	tenants := services.NewTenantService(db)
	joined := time.Now().UTC().AddDate(0, -2, 0)
	seedTenants := []services.CreateTenantInput{
		{Name: "Ravi Kumar", PhoneNumber: "9876500001", SharingType: models.SharingDouble, RoomID: created[1].ID, RentAmount: 7000, AdvanceAmount: 7000, JoinDate: joined},
		{Name: "Anil Sharma", PhoneNumber: "9876500002", SharingType: models.SharingTriple, RoomID: created[2].ID, RentAmount: 5500, JoinDate: joined},
	}
	for _, in := range seedTenants {
		if _, err := tenants.Create(ctx, account.ID, in); err != nil {
			return fmt.Errorf("seed tenant %s: %w", in.Name, err)
		}
	}

	log.Info().Uint("account_id", account.ID).Msg("demo data seeded")
	return nil
}
