package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/shareit/internal/domain"
)

// OverlapFinder is the store query the AvailabilityChecker runs.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]domain.Booking, error)
}

// AvailabilityChecker decides whether an item is free over an interval.
// Bookings in every status occupy their slot, including REJECTED ones.
type AvailabilityChecker struct {
	bookings OverlapFinder
}

// NewAvailabilityChecker constructs an AvailabilityChecker over the given store.
func NewAvailabilityChecker(bookings OverlapFinder) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings}
}

// IsAvailable reports whether no booking of itemID overlaps [start, end).
// Returns domain.ErrValidation if the interval is empty, inverted, or unset.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, itemID uuid.UUID, start, end time.Time) (bool, error) {
	if err := domain.ValidateInterval(start, end); err != nil {
		return false, err
	}

	candidates, err := c.bookings.FindOverlapping(ctx, itemID, start, end)
	if err != nil {
		return false, fmt.Errorf("service.AvailabilityChecker.IsAvailable: %w", err)
	}
	for _, b := range candidates {
		if b.ItemID == itemID && domain.Overlaps(b.Start, b.End, start, end) {
			return false, nil
		}
	}
	return true, nil
}
