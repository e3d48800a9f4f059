// Command seed creates or updates a login and, on an empty database, the
// farm kiosk location and the base shelf categories.
//
//	go run ./cmd/seed -username admin -password 's3cret' -role admin
//	go run ./cmd/seed -hash 's3cret'
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/config"
	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultCategories = []string{"Fruits", "Légumes", "Jus et cidres", "Épicerie"}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "login to create or update")
	password := flag.String("password", "", "password for the login")
	role := flag.String("role", model.RoleAdmin, "admin | cashier | customer")
	email := flag.String("email", "", "e-mail of the login")
	hashOnly := flag.String("hash", "", "print the bcrypt hash of this password and exit")
	flag.Parse()

	if *hashOnly != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hashOnly), service.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("bcrypt")
		}
		fmt.Println(string(h))
		return
	}
	if *password == "" {
		log.Fatal().Msg("-password is required")
	}
	switch *role {
	case model.RoleAdmin, model.RoleCashier, model.RoleCustomer:
	default:
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBMigrations)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}
	u := &model.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         *role,
		IsActive:     true,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "email", "role", "is_active", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert user")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("user created or updated")

	if err := seedReferenceData(db); err != nil {
		log.Fatal().Err(err).Msg("seed reference data")
	}
}

// seedReferenceData only fills empty tables, so reruns never touch edited rows.
func seedReferenceData(db *gorm.DB) error {
	var n int64
	if err := db.Model(&model.StockLocation{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		loc := &model.StockLocation{Code: "KIOSK1", Name: "Kiosque de la ferme", IsActive: true}
		if err := db.Create(loc).Error; err != nil {
			return err
		}
		log.Info().Str("code", loc.Code).Msg("default location created")
	}

	if err := db.Model(&model.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i, name := range defaultCategories {
		c := &model.Category{Name: name, DisplayOrder: i, IsActive: true}
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}
	log.Info().Int("count", len(defaultCategories)).Msg("default categories created")
	return nil
}
