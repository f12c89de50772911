package models

import "time"

// Staff attributes a reservation to the employee who handled it.
type Staff struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"type:varchar(255);not null" json:"name"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Reservations []Reservation `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}
