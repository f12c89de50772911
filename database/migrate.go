package database

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema, including the unique index that
// backs the no-double-booking rule.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Table{},
		&models.Staff{},
		&models.Reservation{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if !db.Migrator().HasIndex(&models.Reservation{}, "idx_table_date_slot") {
		return fmt.Errorf("auto migrate: unique index idx_table_date_slot missing")
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedOptions controls first-run data.
type SeedOptions struct {
	TableCapacities []int
	AdminEmail      string
	AdminPassword   string
}

// Seed creates the table pool and the admin account when they do not exist
// yet. Running it twice is harmless.
func Seed(ctx context.Context, store *Store, opts SeedOptions) error {
	var tableCount int64
	if err := store.conn(ctx).Model(&models.Table{}).Count(&tableCount).Error; err != nil {
		return err
	}
	if tableCount == 0 {
		for _, capacity := range opts.TableCapacities {
			t := models.Table{Capacity: capacity}
			if err := store.CreateTable(ctx, &t); err != nil {
				return fmt.Errorf("seed table: %w", err)
			}
		}
		utils.InfoLogger.Printf("Seeded %d tables", len(opts.TableCapacities))
	}

	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		utils.InfoLogger.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, admin seed skipped")
		return nil
	}

	if _, err := store.FindUserByEmail(ctx, opts.AdminEmail); err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    opts.AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := store.CreateUser(ctx, &admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	utils.InfoLogger.Printf("Default admin seeded: %s", admin.Email)
	return nil
}
