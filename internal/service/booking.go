// Package service contains the business logic for the ShareIt booking service.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on small store interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/shareit/internal/domain"
	"github.com/pkordes/shareit/internal/lib/logger/sl"
	"github.com/pkordes/shareit/internal/repo"
)

// ItemLookup is the slice of the item catalog the booking core reads.
type ItemLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error)
	ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

// UserLookup answers whether a user id is registered.
type UserLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Observer receives booking lifecycle events, e.g. for metrics.
type Observer interface {
	BookingCreated()
	BookingConflict()
	BookingDecided(status domain.BookingStatus)
}

type nopObserver struct{}

func (nopObserver) BookingCreated() {}
func (nopObserver) BookingConflict() {}
func (nopObserver) BookingDecided(domain.BookingStatus) {}

// BookingService implements the booking lifecycle: create, approve/reject,
// authorized retrieval, and categorized listing. It keeps no state between
// calls; every operation re-reads the store.
type BookingService struct {
	bookings     repo.BookingRepo
	items        ItemLookup
	users        UserLookup
	clock        domain.Clock
	availability *AvailabilityChecker
	categories   CategoryFilter
	guard        AccessGuard
	log          *slog.Logger
	obs          Observer
}

// NewBookingService constructs a BookingService. A nil log discards output
// and a nil obs ignores events.
func NewBookingService(
	bookings repo.BookingRepo,
	items ItemLookup,
	users UserLookup,
	clock domain.Clock,
	log *slog.Logger,
	obs Observer,
) *BookingService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &BookingService{
		bookings:     bookings,
		items:        items,
		users:        users,
		clock:        clock,
		availability: NewAvailabilityChecker(bookings),
		categories:   NewCategoryFilter(clock),
		log:          log,
		obs:          obs,
	}
}

// Create books itemID for bookerID over [start, end) in status WAITING.
// Checks run in a fixed order and all precede the single write:
//   - domain.ErrValidation  end not after start
//   - domain.ErrNotFound    item does not exist
//   - domain.ErrConflict    booker owns the item
//   - domain.ErrConflict    item not available
//   - domain.ErrConflict    interval overlaps an existing booking
//   - domain.ErrNotFound    booker does not exist
//
// An overlap that slips past the check is rejected by the store and reported
// as domain.ErrConflict as well.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID uuid.UUID, start, end time.Time) (domain.Booking, error) {
	if err := domain.ValidateInterval(start, end); err != nil {
		return domain.Booking{}, err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("%w: item %s does not exist", domain.ErrNotFound, itemID)
		}
		return domain.Booking{}, s.unexpected("Create", err)
	}
	if item.OwnerID == bookerID {
		return domain.Booking{}, fmt.Errorf("%w: owner cannot book own item", domain.ErrConflict)
	}
	if !item.Available {
		return domain.Booking{}, fmt.Errorf("%w: item not available", domain.ErrConflict)
	}

	free, err := s.availability.IsAvailable(ctx, itemID, start, end)
	if err != nil {
		return domain.Booking{}, s.unexpected("Create", err)
	}
	if !free {
		s.obs.BookingConflict()
		return domain.Booking{}, fmt.Errorf("%w: overlapping booking", domain.ErrConflict)
	}

	if err := s.requireUser(ctx, "Create", bookerID); err != nil {
		return domain.Booking{}, err
	}

	created, err := s.bookings.Create(ctx, domain.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   domain.StatusWaiting,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.obs.BookingConflict()
			return domain.Booking{}, fmt.Errorf("%w: overlapping booking", domain.ErrConflict)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
		}
		return domain.Booking{}, s.unexpected("Create", err)
	}

	s.obs.BookingCreated()
	s.log.InfoContext(ctx, "booking created",
		slog.String("booking_id", created.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("booker_id", bookerID.String()),
	)
	return created, nil
}

// Approve moves a WAITING booking to APPROVED (approve=true) or REJECTED.
// Only the item owner may decide; anyone else, like a missing booking, gets
// domain.ErrNotFound. A booking that is already decided yields
// domain.ErrAlreadyDecided, so at most one call per booking succeeds.
func (s *BookingService) Approve(ctx context.Context, callerID, bookingID uuid.UUID, approve bool) (domain.Booking, error) {
	b, err := s.loadBooking(ctx, "Approve", bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !s.guard.CanDecide(callerID, b) {
		return domain.Booking{}, bookingNotFound(bookingID)
	}

	next, err := b.Status.Decide(approve)
	if err != nil {
		return domain.Booking{}, err
	}

	updated, err := s.bookings.DecideStatus(ctx, bookingID, next)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyDecided):
			return domain.Booking{}, fmt.Errorf("service.BookingService.Approve: %w", err)
		case errors.Is(err, domain.ErrNotFound):
			return domain.Booking{}, bookingNotFound(bookingID)
		}
		return domain.Booking{}, s.unexpected("Approve", err)
	}

	s.obs.BookingDecided(updated.Status)
	s.log.InfoContext(ctx, "booking decided",
		slog.String("booking_id", bookingID.String()),
		slog.String("owner_id", callerID.String()),
		slog.String("status", string(updated.Status)),
	)
	return updated, nil
}

// GetByID returns a booking visible to callerID: its booker or the item
// owner. Anyone else receives domain.ErrNotFound.
func (s *BookingService) GetByID(ctx context.Context, callerID, bookingID uuid.UUID) (domain.Booking, error) {
	b, err := s.loadBooking(ctx, "GetByID", bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !s.guard.CanView(callerID, b) {
		return domain.Booking{}, bookingNotFound(bookingID)
	}
	return b, nil
}

// List returns one page of callerID's bookings in the given category, seen
// from role: as booker, or as owner of the booked items. Results are ordered
// by start descending. Always returns a non-nil slice on success.
//
// Returns domain.ErrNotFound if the caller is unknown or, as owner, owns no
// items; domain.ErrValidation for an unknown category or bad page.
func (s *BookingService) List(ctx context.Context, callerID uuid.UUID, role domain.Role, category string, page domain.PageRequest) ([]domain.Booking, error) {
	if err := s.requireUser(ctx, "List", callerID); err != nil {
		return nil, err
	}

	if role == domain.RoleOwner {
		owns, err := s.items.ExistsByOwner(ctx, callerID)
		if err != nil {
			return nil, s.unexpected("List", err)
		}
		if !owns {
			return nil, fmt.Errorf("%w: no items owned by user %s", domain.ErrNotFound, callerID)
		}
	}

	q, err := s.categories.Query(category, page)
	if err != nil {
		return nil, err
	}

	var bookings []domain.Booking
	if role == domain.RoleOwner {
		bookings, err = s.bookings.ListByOwner(ctx, callerID, q)
	} else {
		bookings, err = s.bookings.ListByBooker(ctx, callerID, q)
	}
	if err != nil {
		return nil, s.unexpected("List", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// NearestBookings returns the last approved booking that started before now
// and the first approved booking that starts after now. Only the item owner
// sees them; for other callers both are nil.
// Returns domain.ErrNotFound if the item does not exist.
func (s *BookingService) NearestBookings(ctx context.Context, callerID, itemID uuid.UUID) (domain.NearestBookings, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NearestBookings{}, fmt.Errorf("%w: item %s does not exist", domain.ErrNotFound, itemID)
		}
		return domain.NearestBookings{}, s.unexpected("NearestBookings", err)
	}
	if item.OwnerID != callerID {
		return domain.NearestBookings{}, nil
	}

	approved, err := s.bookings.ListApprovedByItem(ctx, itemID)
	if err != nil {
		return domain.NearestBookings{}, s.unexpected("NearestBookings", err)
	}

	now := s.clock.Now()
	var out domain.NearestBookings
	for i := range approved {
		b := approved[i]
		switch {
		case b.Start.Before(now):
			out.Last = &b
		case b.Start.After(now) && out.Next == nil:
			out.Next = &b
		}
	}
	return out, nil
}

// HasFinishedBooking reports whether userID has completed an approved
// booking of itemID, i.e. one that ended before now.
// Returns domain.ErrNotFound if the user or the item does not exist.
func (s *BookingService) HasFinishedBooking(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	if err := s.requireUser(ctx, "HasFinishedBooking", userID); err != nil {
		return false, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: item %s does not exist", domain.ErrNotFound, itemID)
		}
		return false, s.unexpected("HasFinishedBooking", err)
	}

	done, err := s.bookings.ExistsFinished(ctx, userID, itemID, s.clock.Now())
	if err != nil {
		return false, s.unexpected("HasFinishedBooking", err)
	}
	return done, nil
}

// loadBooking reads the current persisted booking.
func (s *BookingService) loadBooking(ctx context.Context, op string, id uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, bookingNotFound(id)
		}
		return domain.Booking{}, s.unexpected(op, err)
	}
	return b, nil
}

// requireUser returns domain.ErrNotFound unless id is a registered user.
func (s *BookingService) requireUser(ctx context.Context, op string, id uuid.UUID) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return s.unexpected(op, err)
	}
	if !ok {
		return fmt.Errorf("%w: user %s does not exist", domain.ErrNotFound, id)
	}
	return nil
}

// unexpected logs a store failure and wraps it with the operation name.
func (s *BookingService) unexpected(op string, err error) error {
	s.log.Error("booking store failure", slog.String("op", op), sl.Err(err))
	return fmt.Errorf("service.BookingService.%s: %w", op, err)
}

func bookingNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: booking %s does not exist", domain.ErrNotFound, id)
}
