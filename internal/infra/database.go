package infra

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// GormConfig is shared by the server and the test databases: UTC timestamps
// and driver errors translated to gorm.ErrDuplicatedKey and friends.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// Models lists every table, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Product{},
		&model.StockLocation{},
		&model.Stock{},
		&model.StockMovement{},
		&model.Customer{},
		&model.LoyaltyCard{},
		&model.Sale{},
		&model.SaleLine{},
		&model.DailyReport{},
		&model.User{},
	}
}

// NewDatabase connects to PostgreSQL and brings the schema up to date, either
// with the embedded SQL migrations (useMigrations) or with gorm AutoMigrate
// for local development.
func NewDatabase(dsn string, useMigrations bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if useMigrations {
		if err := RunSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations: %w", err)
		}
		return db, nil
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations applies the embedded migrations/ files with golang-migrate.
func RunSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	v, dirty, _ := m.Version()
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("database migrated")
	return nil
}

// applySchemaPatches adds what AutoMigrate cannot express: CHECK constraints
// and the cascade from sale_lines to sales. Each statement is idempotent.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"stock reservations non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stocks_reserved_non_negative') THEN
    ALTER TABLE stocks ADD CONSTRAINT chk_stocks_reserved_non_negative CHECK (reserved_quantity >= 0);
  END IF;
END $$`},
		{"loyalty balance non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_loyalty_balance_non_negative') THEN
    ALTER TABLE loyalty_cards ADD CONSTRAINT chk_loyalty_balance_non_negative
      CHECK (points_balance >= 0 AND points_balance = total_points_earned - total_points_spent);
  END IF;
END $$`},
		{"season months in range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_season_months') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_season_months CHECK (
      (season_start_month IS NULL OR season_start_month BETWEEN 1 AND 12) AND
      (season_end_month IS NULL OR season_end_month BETWEEN 1 AND 12));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
