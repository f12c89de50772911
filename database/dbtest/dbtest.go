// Package dbtest opens isolated in-memory sqlite stores for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated store backed by a private in-memory database.
// The pool is limited to one connection, as sqlite allows a single writer.
func Open(t testing.TB) *database.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database.NewStore(db)
}

// SeedTables creates one table per capacity and returns them in order.
func SeedTables(t testing.TB, store *database.Store, capacities ...int) []models.Table {
	t.Helper()
	out := make([]models.Table, 0, len(capacities))
	for _, c := range capacities {
		tbl := models.Table{Capacity: c}
		if err := store.DB().Create(&tbl).Error; err != nil {
			t.Fatalf("seed table: %v", err)
		}
		out = append(out, tbl)
	}
	return out
}

// SeedCustomer creates a customer with the given email.
func SeedCustomer(t testing.TB, store *database.Store, name, email string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name, Phone: "0851234567", Email: database.NormalizeEmail(email)}
	if err := store.DB().Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}
