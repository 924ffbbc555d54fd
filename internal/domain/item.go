package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is the bookable thing. The booking core only reads OwnerID and
// Available; it never mutates an item.
type Item struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
	CreatedAt   time.Time
}

// User is a registered account. Only its identity matters to bookings.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// NearestBookings holds the approved bookings of an item closest to now on
// either side. Either pointer is nil when no such booking exists.
type NearestBookings struct {
	Last *Booking
	Next *Booking
}
