package services

import (
	"sort"

	"github.com/yeremiapane/restaurant-reservations/models"
)

// Visible filters reservations by role: staff and admins see everything,
// customers only their own, anyone else nothing. The result is ordered by
// date, then time slot, then id.
func Visible(rs []models.Reservation, role models.Role, customerID uint) []models.Reservation {
	out := make([]models.Reservation, 0, len(rs))
	switch {
	case role.IsStaffOrAdmin():
		out = append(out, rs...)
	case role == models.RoleCustomer && customerID != 0:
		for _, r := range rs {
			if r.CustomerID == customerID {
				out = append(out, r)
			}
		}
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ReservationDate.Equal(b.ReservationDate) {
			return a.ReservationDate.Before(b.ReservationDate)
		}
		if a.TimeSlot != b.TimeSlot {
			return a.TimeSlot.Minutes() < b.TimeSlot.Minutes()
		}
		return a.ID < b.ID
	})
	return out
}

// CanModify applies the visibility rule to a single reservation.
func CanModify(r models.Reservation, role models.Role, customerID uint) bool {
	if role.IsStaffOrAdmin() {
		return true
	}
	return role == models.RoleCustomer && customerID != 0 && r.CustomerID == customerID
}
