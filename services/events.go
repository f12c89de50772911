package services

import (
	"fmt"
	"html"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
)

type ChangeKind string

const (
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeCancelled ChangeKind = "cancelled"
)

// ReservationEvent is published after a reservation change has committed.
type ReservationEvent struct {
	Kind          ChangeKind      `json:"kind"`
	ReservationID uint            `json:"reservation_id"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	Date          time.Time       `json:"date"`
	TimeSlot      models.TimeSlot `json:"time_slot"`
	Guests        int             `json:"guests"`
	TableID       uint            `json:"table_id"`
}

func newReservationEvent(kind ChangeKind, r models.Reservation, customer models.Customer) ReservationEvent {
	return ReservationEvent{
		Kind:          kind,
		ReservationID: r.ID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		Date:          r.ReservationDate,
		TimeSlot:      r.TimeSlot,
		Guests:        r.NumberOfGuests,
		TableID:       r.TableID,
	}
}

// FloorEvent is the event name pushed to floor displays.
func (e ReservationEvent) FloorEvent() string {
	return "reservation_" + string(e.Kind)
}

// EmailSubject returns the subject line customers receive for this change.
func (e ReservationEvent) EmailSubject() string {
	switch e.Kind {
	case ChangeUpdated:
		return "Reservation Updated"
	case ChangeCancelled:
		return "Reservation Cancellation"
	default:
		return "Reservation Confirmation"
	}
}

// EmailBody renders the HTML message; user-supplied values are escaped.
func (e ReservationEvent) EmailBody(signature string) string {
	name := html.EscapeString(e.CustomerName)
	date := e.Date.Format("02 Jan 2006")
	slot := html.EscapeString(string(e.TimeSlot))
	sig := html.EscapeString(signature)

	var msg string
	switch e.Kind {
	case ChangeUpdated:
		msg = fmt.Sprintf("<p>Your reservation has been updated to %s at %s.</p><p>Number of Guests: %d</p><p>We look forward to seeing you!</p>", date, slot, e.Guests)
	case ChangeCancelled:
		msg = fmt.Sprintf("<p>Your reservation for %s at %s has been successfully cancelled.</p><p>We hope to see you in the future.</p>", date, slot)
	default:
		msg = fmt.Sprintf("<p>Your reservation has been confirmed for %s at %s.</p><p>Number of Guests: %d</p><p>We look forward to seeing you!</p>", date, slot, e.Guests)
	}
	return fmt.Sprintf("<p>Dear %s,</p>%s<p>Best regards,<br/>%s</p>", name, msg, sig)
}
