package services

import "github.com/yeremiapane/restaurant-reservations/models"

// Identity is what the identity provider knows about the caller.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

// Requester is an Identity linked to its customer and staff records.
// CustomerID and StaffID are zero/nil when no such record exists.
type Requester struct {
	Role       models.Role
	Email      string
	CustomerID uint
	StaffID    *uint
}
