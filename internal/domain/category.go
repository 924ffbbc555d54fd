package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Category names a slice of a user's bookings, relative to a reference instant.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryCurrent  Category = "CURRENT"
	CategoryPast     Category = "PAST"
	CategoryFuture   Category = "FUTURE"
	CategoryWaiting  Category = "WAITING"
	CategoryRejected Category = "REJECTED"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryAll, CategoryCurrent, CategoryPast,
	CategoryFuture, CategoryWaiting, CategoryRejected,
}

// ParseCategory converts a case-insensitive category name.
// An empty string means ALL.
func ParseCategory(raw string) (Category, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return CategoryAll, nil
	}
	c := Category(s)
	if !slices.Contains(Categories, c) {
		return "", fmt.Errorf("%w: unknown state: %s", ErrValidation, raw)
	}
	return c, nil
}

// Matches reports whether b belongs to category c at instant now.
//
// CURRENT, PAST and FUTURE partition every booking by time:
//
//	FUTURE   start > now
//	CURRENT  start <= now <= end
//	PAST     end < now
func (c Category) Matches(b Booking, now time.Time) bool {
	switch c {
	case CategoryAll:
		return true
	case CategoryCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case CategoryPast:
		return b.End.Before(now)
	case CategoryFuture:
		return b.Start.After(now)
	case CategoryWaiting:
		return b.Status == StatusWaiting
	case CategoryRejected:
		return b.Status == StatusRejected
	}
	return false
}

// BookingQuery is a fully resolved listing request: which category, relative
// to which instant, and which page of the ordered result.
type BookingQuery struct {
	Category Category
	Now      time.Time
	Page     PageRequest
}

// Apply filters bookings by the query category, orders them by start
// descending (stable, so equal starts keep their input order) and cuts the
// requested page. The input slice is not modified.
func (q BookingQuery) Apply(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if q.Category.Matches(b, q.Now) {
			out = append(out, b)
		}
	}
	SortByStartDesc(out)
	lo, hi := q.Page.Window(len(out))
	return out[lo:hi]
}

// SortByStartDesc orders bookings most-recently-starting first.
// Ties keep their relative order.
func SortByStartDesc(bookings []Booking) {
	slices.SortStableFunc(bookings, func(a, b Booking) int {
		return b.Start.Compare(a.Start)
	})
}
