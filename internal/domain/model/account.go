package model

import (
	"time"

	"uniresto-dining/internal/domain"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// Account is a directory record for a student, staff member or
// administrator. Bookings hold a non-owning reference to it: deleting an
// account leaves its bookings intact so historical tickets stay auditable.
type Account struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAccount(id, fullName, email string, role Role) (*Account, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if fullName == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch role {
	case RoleAdmin, RoleStaff, RoleStudent:
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &Account{
		ID:        id,
		FullName:  fullName,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}, nil
}

func (a *Account) IsZero() bool { return a == nil || a.ID == "" }
