package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
)

type fakeLookup struct {
	taken bool
	err   error
	calls int
}

func (f *fakeLookup) CustomerHasReservationOn(ctx context.Context, customerID uint, date time.Time, excludeID uint) (bool, error) {
	f.calls++
	return f.taken, f.err
}

var (
	validToday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	validNow   = time.Date(2026, 10, 18, 21, 30, 0, 0, time.UTC)
)

func proposed(date time.Time, slot models.TimeSlot, guests int) models.Reservation {
	return models.Reservation{CustomerID: 1, ReservationDate: date, TimeSlot: slot, NumberOfGuests: guests}
}

func TestValidateAcceptsFutureReservation(t *testing.T) {
	v := services.NewValidator()
	got, err := v.Validate(context.Background(), &fakeLookup{}, proposed(validToday.AddDate(0, 0, 1), models.Slot1800, 4), models.RoleCustomer, validToday, validNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateRejectsPastDate(t *testing.T) {
	v := services.NewValidator()
	got, err := v.Validate(context.Background(), &fakeLookup{}, proposed(validToday.AddDate(0, 0, -1), models.Slot2200, 2), models.RoleAdmin, validToday, validNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, services.FieldReservationDate, got[0].Field)
}

func TestValidateSlotsAlreadyPassedToday(t *testing.T) {
	v := services.NewValidator()
	cases := map[models.TimeSlot]bool{
		models.Slot1800: true,
		models.Slot1900: true,
		models.Slot2000: true,
		models.Slot2100: true,
		models.Slot2200: false,
	}
	for slot, rejected := range cases {
		got, err := v.Validate(context.Background(), &fakeLookup{}, proposed(validToday, slot, 2), models.RoleStaff, validToday, validNow)
		require.NoError(t, err)
		assert.Equal(t, rejected, got.Has(services.FieldTimeSlot), "slot %s", slot)
	}
}

func TestValidateSlotStartingNowHasPassed(t *testing.T) {
	v := services.NewValidator()
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	got, err := v.Validate(context.Background(), &fakeLookup{}, proposed(validToday, models.Slot2000, 2), models.RoleCustomer, validToday, now)
	require.NoError(t, err)
	assert.True(t, got.Has(services.FieldTimeSlot))
}

func TestValidateOneReservationPerDayForCustomers(t *testing.T) {
	v := services.NewValidator()
	lookup := &fakeLookup{taken: true}

	got, err := v.Validate(context.Background(), lookup, proposed(validToday.AddDate(0, 0, 2), models.Slot1900, 2), models.RoleCustomer, validToday, validNow)
	require.NoError(t, err)
	assert.True(t, got.Has(services.FieldReservationDate))

	for _, role := range []models.Role{models.RoleStaff, models.RoleAdmin} {
		got, err = v.Validate(context.Background(), lookup, proposed(validToday.AddDate(0, 0, 2), models.Slot1900, 2), role, validToday, validNow)
		require.NoError(t, err)
		assert.Empty(t, got, "role %s", role)
	}
	assert.Equal(t, 1, lookup.calls)
}

func TestValidateGuestRange(t *testing.T) {
	v := services.NewValidator()
	for _, guests := range []int{0, -1, 7, 12} {
		for _, role := range []models.Role{models.RoleCustomer, models.RoleAdmin} {
			got, err := v.Validate(context.Background(), &fakeLookup{}, proposed(validToday.AddDate(0, 0, 1), models.Slot1800, guests), role, validToday, validNow)
			require.NoError(t, err)
			assert.True(t, got.Has(services.FieldNumberOfGuests), "guests %d role %s", guests, role)
		}
	}
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	v := services.NewValidator()
	got, err := v.Validate(context.Background(), &fakeLookup{taken: true}, proposed(validToday, models.Slot1800, 9), models.RoleCustomer, validToday, validNow)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.True(t, got.Has(services.FieldTimeSlot))
	assert.True(t, got.Has(services.FieldReservationDate))
	assert.True(t, got.Has(services.FieldNumberOfGuests))
	assert.Contains(t, got.Error(), "NumberOfGuests")
}

func TestValidatePropagatesLookupErrors(t *testing.T) {
	v := services.NewValidator()
	boom := errors.New("db down")
	_, err := v.Validate(context.Background(), &fakeLookup{err: boom}, proposed(validToday.AddDate(0, 0, 1), models.Slot1800, 2), models.RoleCustomer, validToday, validNow)
	assert.ErrorIs(t, err, boom)
}
