package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
)

const (
	FieldReservationDate = "ReservationDate"
	FieldTimeSlot        = "TimeSlot"
	FieldNumberOfGuests  = "NumberOfGuests"
	FieldCustomerID      = "CustomerID"
)

// ReservationLookup is what the validator needs from the entity store.
type ReservationLookup interface {
	CustomerHasReservationOn(ctx context.Context, customerID uint, date time.Time, excludeID uint) (bool, error)
}

// ReservationValidator checks the business rules of a proposed reservation.
// It never writes and never looks at table availability.
type ReservationValidator struct{}

func NewValidator() *ReservationValidator {
	return &ReservationValidator{}
}

// Validate evaluates every rule independently and returns all violations.
// today is the calendar date (UTC midnight) and now the wall clock in the
// restaurant's location; r.ID is excluded from the one-per-day check.
func (v *ReservationValidator) Validate(ctx context.Context, lookup ReservationLookup, r models.Reservation, role models.Role, today, now time.Time) (Violations, error) {
	var out Violations

	date := r.ReservationDate
	switch {
	case date.Before(today):
		out = append(out, Violation{Field: FieldReservationDate, Message: "Reservation date cannot be in the past."})
	case date.Equal(today):
		current := now.Hour()*60 + now.Minute()
		if r.TimeSlot.Minutes() <= current {
			out = append(out, Violation{Field: FieldTimeSlot, Message: "The selected time slot has already passed for today."})
		}
	}

	if !role.IsStaffOrAdmin() {
		taken, err := lookup.CustomerHasReservationOn(ctx, r.CustomerID, date, r.ID)
		if err != nil {
			return nil, fmt.Errorf("check existing reservations: %w", err)
		}
		if taken {
			out = append(out, Violation{Field: FieldReservationDate, Message: "You already have a reservation on this date."})
		}
	}

	if r.NumberOfGuests < models.MinGuests || r.NumberOfGuests > models.MaxGuests {
		out = append(out, Violation{
			Field:   FieldNumberOfGuests,
			Message: fmt.Sprintf("Number of guests must be between %d and %d.", models.MinGuests, models.MaxGuests),
		})
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
