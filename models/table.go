package models

import "time"

type Table struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Capacity     int           `gorm:"not null;index" json:"capacity"`
	Reservations []Reservation `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}
