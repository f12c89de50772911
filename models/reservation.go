package models

import (
	"time"
)

const (
	MinGuests = 1
	MaxGuests = 6
)

// Reservation binds a customer to a table for one date and time slot.
// No two rows may share (table_id, reservation_date, time_slot).
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerID      uint      `gorm:"not null;index:idx_customer_date" json:"customer_id"`
	Customer        *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TableID         uint      `gorm:"not null;uniqueIndex:idx_table_date_slot" json:"table_id"`
	Table           *Table    `gorm:"foreignKey:TableID" json:"table,omitempty"`
	StaffID         *uint     `gorm:"index" json:"staff_id,omitempty"`
	Staff           *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	ReservationDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_table_date_slot;index:idx_customer_date" json:"reservation_date"`
	TimeSlot        TimeSlot  `gorm:"type:varchar(5);not null;uniqueIndex:idx_table_date_slot" json:"time_slot"`
	NumberOfGuests  int       `gorm:"not null" json:"number_of_guests"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// DateString formats ReservationDate as YYYY-MM-DD.
func (r *Reservation) DateString() string {
	return r.ReservationDate.Format(DateLayout)
}
