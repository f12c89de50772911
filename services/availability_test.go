package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/database/dbtest"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
)

var day = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func book(t *testing.T, store interface {
	CreateReservation(context.Context, *models.Reservation) error
}, customerID, tableID uint, slot models.TimeSlot, guests int) models.Reservation {
	t.Helper()
	r := models.Reservation{
		CustomerID:      customerID,
		TableID:         tableID,
		ReservationDate: day,
		TimeSlot:        slot,
		NumberOfGuests:  guests,
	}
	require.NoError(t, store.CreateReservation(context.Background(), &r))
	return r
}

func TestFindTablePicksSmallestSufficient(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 6, 2, 4)

	got, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1900, PartySize: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[2].ID, got.ID)
	assert.Equal(t, 4, got.Capacity)
}

func TestFindTableTiesBrokenById(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 4, 4)

	got, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[0].ID, got.ID)
}

func TestFindTableSkipsBookedTables(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 2, 4, 6)
	c := dbtest.SeedCustomer(t, store, "Ana", "ana@example.com")
	book(t, store, c.ID, tables[1].ID, models.Slot2000, 4)

	resolver := services.NewAvailabilityResolver()
	got, err := resolver.FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot2000, PartySize: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[2].ID, got.ID)

	// slot lain tidak terpengaruh
	got, err = resolver.FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot2100, PartySize: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[1].ID, got.ID)
}

func TestFindTableNoTableLargeEnough(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.SeedTables(t, store, 2, 4)

	_, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 6,
	})
	assert.ErrorIs(t, err, services.ErrNoTableLargeEnough)
	assert.ErrorIs(t, err, services.ErrNoTable)
}

func TestFindTableAllBooked(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 4)
	c := dbtest.SeedCustomer(t, store, "Ana", "ana@example.com")
	book(t, store, c.ID, tables[0].ID, models.Slot1800, 2)

	_, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 2,
	})
	assert.ErrorIs(t, err, services.ErrAllTablesBooked)
	assert.ErrorIs(t, err, services.ErrNoTable)
}

func TestFindTableExcludesEditedReservationAndPrefersItsTable(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 2, 4, 6)
	c := dbtest.SeedCustomer(t, store, "Ana", "ana@example.com")
	r := book(t, store, c.ID, tables[2].ID, models.Slot1800, 5)

	got, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 2,
		ExcludeReservationID: r.ID,
		PreferTableID:        tables[2].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[2].ID, got.ID)
}

func TestFindTableIgnoresPreferredTableThatIsTooSmall(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 2, 4)

	got, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 3,
		PreferTableID: tables[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, tables[1].ID, got.ID)
}

func TestFindTableHonoursSkip(t *testing.T) {
	store := dbtest.Open(t)
	tables := dbtest.SeedTables(t, store, 2, 2)

	got, err := services.NewAvailabilityResolver().FindTable(context.Background(), store, services.AvailabilityQuery{
		Date: day, TimeSlot: models.Slot1800, PartySize: 2,
		Skip: map[uint]bool{tables[0].ID: true},
	})
	require.NoError(t, err)
	assert.Equal(t, tables[1].ID, got.ID)
}
