package reports_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/reports"
)

func TestDailySheetRendersPDF(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	rs := []models.Reservation{
		{ID: 1, TableID: 2, TimeSlot: models.Slot1800, NumberOfGuests: 3, ReservationDate: date,
			Table: &models.Table{ID: 2, Capacity: 4}, Customer: &models.Customer{Name: "José Álvarez", Phone: "0851"}},
		{ID: 2, TableID: 1, TimeSlot: models.Slot2000, NumberOfGuests: 2, ReservationDate: date},
	}

	out, err := reports.DailySheet("Pizzeria Reservations", date, rs, date.Add(9*time.Hour))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestDailySheetEmptyDay(t *testing.T) {
	out, err := reports.DailySheet("Pizzeria Reservations", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
