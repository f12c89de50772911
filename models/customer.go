package models

import (
	"time"
)

type Customer struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"type:varchar(255);not null" json:"name"`
	Phone        string        `gorm:"type:varchar(50);not null" json:"phone"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Reservations []Reservation `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}
