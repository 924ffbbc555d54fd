package service

import (
	"github.com/pkordes/shareit/internal/domain"
)

// CategoryFilter turns a raw category name and page into a BookingQuery
// anchored at the clock's current instant.
type CategoryFilter struct {
	clock domain.Clock
}

// NewCategoryFilter constructs a CategoryFilter reading "now" from clock.
func NewCategoryFilter(clock domain.Clock) CategoryFilter {
	return CategoryFilter{clock: clock}
}

// Query validates raw and page and resolves them against Now.
// Returns domain.ErrValidation for an unknown category or unusable page.
func (f CategoryFilter) Query(raw string, page domain.PageRequest) (domain.BookingQuery, error) {
	category, err := domain.ParseCategory(raw)
	if err != nil {
		return domain.BookingQuery{}, err
	}
	if err := page.Validate(); err != nil {
		return domain.BookingQuery{}, err
	}
	return domain.BookingQuery{
		Category: category,
		Now:      f.clock.Now(),
		Page:     page,
	}, nil
}
