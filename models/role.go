package models

import (
	"fmt"
	"strings"
)

// Role adalah peran requester. Set-nya tertutup, bukan konfigurasi.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleStaff     Role = "Staff"
	RoleCustomer  Role = "Customer"
	RoleAnonymous Role = ""
)

// ParseRole maps a stored or claimed role name onto the closed set.
// Matching is case-insensitive; an empty string is Anonymous.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "staff":
		return RoleStaff, nil
	case "customer":
		return RoleCustomer, nil
	case "":
		return RoleAnonymous, nil
	}
	return RoleAnonymous, fmt.Errorf("unknown role %q", s)
}

// IsStaffOrAdmin reports whether the role is exempt from per-customer rules
// and may see every reservation.
func (r Role) IsStaffOrAdmin() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) String() string {
	if r == RoleAnonymous {
		return "Anonymous"
	}
	return string(r)
}
