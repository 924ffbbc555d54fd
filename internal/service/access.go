package service

import (
	"github.com/google/uuid"

	"github.com/pkordes/shareit/internal/domain"
)

// AccessGuard decides who may see or decide a booking. Callers turn a denial
// into domain.ErrNotFound so another user's booking is never disclosed.
type AccessGuard struct{}

// CanView reports whether callerID is the booker or the item owner.
func (AccessGuard) CanView(callerID uuid.UUID, b domain.Booking) bool {
	return callerID == b.BookerID || callerID == b.ItemOwnerID
}

// CanDecide reports whether callerID owns the booked item.
func (AccessGuard) CanDecide(callerID uuid.UUID, b domain.Booking) bool {
	return callerID == b.ItemOwnerID
}
