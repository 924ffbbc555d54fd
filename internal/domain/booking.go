// Package domain contains the core data types for the ShareIt booking service.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a Booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Valid reports whether s is one of the three known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decide returns the status a WAITING booking moves to when its owner
// approves (approve=true) or rejects it. Any other starting status yields
// ErrAlreadyDecided: a decided booking is never re-decided.
func (s BookingStatus) Decide(approve bool) (BookingStatus, error) {
	if s != StatusWaiting {
		return s, fmt.Errorf("%w: status is %s", ErrAlreadyDecided, s)
	}
	if approve {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// Booking is a reservation of an Item by a User over the half-open interval
// [Start, End). ItemOwnerID is read from the item when the booking is loaded
// and is not part of the booking's own state.
type Booking struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	BookerID    uuid.UUID
	ItemOwnerID uuid.UUID
	Start       time.Time
	End         time.Time
	Status      BookingStatus
	CreatedAt   time.Time
}

// Overlaps reports whether [s1,e1) and [s2,e2) share at least one instant.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ValidateInterval enforces start < end and that both are set.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	return nil
}

// Role selects which side of a booking a listing is made from.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "OWNER"
	}
	return "BOOKER"
}
