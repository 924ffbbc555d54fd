package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/shareit/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Every returned booking carries the owner of its item in ItemOwnerID.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	// Returns domain.ErrConflict if the interval overlaps another booking of
	// the same item, and domain.ErrNotFound if the item or booker is gone.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// FindOverlapping returns the bookings of itemID, in any status, whose
	// interval overlaps [start, end).
	FindOverlapping(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]domain.Booking, error)

	// DecideStatus moves a WAITING booking to the given status and returns the
	// updated record. Returns domain.ErrAlreadyDecided if the booking is no
	// longer WAITING and domain.ErrNotFound if it does not exist.
	DecideStatus(ctx context.Context, id uuid.UUID, to domain.BookingStatus) (domain.Booking, error)

	// ListByBooker returns one page of the bookings made by bookerID that match
	// the query, ordered by start descending.
	ListByBooker(ctx context.Context, bookerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error)

	// ListByOwner returns one page of the bookings of all items owned by
	// ownerID that match the query, ordered by start descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error)

	// ListApprovedByItem returns every APPROVED booking of an item ordered by
	// start ascending.
	ListApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Booking, error)

	// ExistsFinished reports whether bookerID holds an APPROVED booking of
	// itemID that ended before now.
	ExistsFinished(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (bool, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

// bookingColumns is the projection shared by every booking read. The item
// join supplies the owner id used for authorization.
const bookingColumns = `b.id, b.item_id, b.booker_id, i.owner_id, b.start_at, b.end_at, b.status, b.created_at`

// Create inserts a booking. Overlap is enforced by the bookings_no_overlap
// exclusion constraint, so two concurrent inserts cannot both succeed.
func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		WITH b AS (
			INSERT INTO bookings (item_id, booker_id, start_at, end_at, status)
			VALUES (@item_id, @booker_id, @start_at, @end_at, @status)
			RETURNING id, item_id, booker_id, start_at, end_at, status, created_at
		)
		SELECT ` + bookingColumns + `
		FROM b
		JOIN items i ON i.id = b.item_id`

	args := pgx.NamedArgs{
		"item_id":   b.ItemID,
		"booker_id": b.BookerID,
		"start_at":  b.Start,
		"end_at":    b.End,
		"status":    string(b.Status),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", translatePgError(err))
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE b.id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindOverlapping uses the same half-open range operator as the exclusion
// constraint, so the pre-check and the commit-time check agree.
func (r *pgBookingRepo) FindOverlapping(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE b.item_id = @item_id
		  AND tstzrange(b.start_at, b.end_at, '[)') && tstzrange(@start_at, @end_at, '[)')
		ORDER BY b.start_at`

	args := pgx.NamedArgs{"item_id": itemID, "start_at": start, "end_at": end}
	bookings, err := r.queryBookings(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.FindOverlapping: %w", err)
	}
	return bookings, nil
}

// DecideStatus is a compare-and-set on status = WAITING. Concurrent callers
// are serialized by the row lock the UPDATE takes; only the first sees WAITING.
func (r *pgBookingRepo) DecideStatus(ctx context.Context, id uuid.UUID, to domain.BookingStatus) (domain.Booking, error) {
	const q = `
		WITH b AS (
			UPDATE bookings
			SET status = @to
			WHERE id = @id AND status = @from
			RETURNING id, item_id, booker_id, start_at, end_at, status, created_at
		)
		SELECT ` + bookingColumns + `
		FROM b
		JOIN items i ON i.id = b.item_id`

	args := pgx.NamedArgs{
		"id":   id,
		"to":   string(to),
		"from": string(domain.StatusWaiting),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.DecideStatus: %w", err)
	}

	// No row updated: either the booking is gone or it has left WAITING.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.DecideStatus: %w", err)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.DecideStatus: %w: status is %s",
		domain.ErrAlreadyDecided, current.Status)
}

// ListByBooker returns one page of a booker's bookings.
func (r *pgBookingRepo) ListByBooker(ctx context.Context, bookerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error) {
	bookings, err := r.list(ctx, "b.booker_id = @user_id", bookerID, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByBooker: %w", err)
	}
	return bookings, nil
}

// ListByOwner returns one page of the bookings on an owner's items.
func (r *pgBookingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error) {
	bookings, err := r.list(ctx, "i.owner_id = @user_id", ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByOwner: %w", err)
	}
	return bookings, nil
}

// list is shared by ListByBooker and ListByOwner. scope and the category
// predicate are fixed SQL fragments; every value is bound as a named arg.
// seq breaks start ties in insertion order.
func (r *pgBookingRepo) list(ctx context.Context, scope string, userID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error) {
	predicate, err := categoryPredicate(q.Category)
	if err != nil {
		return nil, err
	}

	sql := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE ` + scope + `
		  AND ` + predicate + `
		ORDER BY b.start_at DESC, b.seq ASC
		OFFSET @from
		LIMIT @size`

	args := pgx.NamedArgs{
		"user_id": userID,
		"now":     q.Now,
		"from":    q.Page.From,
		"size":    q.Page.Size,
	}
	return r.queryBookings(ctx, sql, args)
}

// categoryPredicate translates a category into the WHERE fragment that
// mirrors domain.Category.Matches.
func categoryPredicate(c domain.Category) (string, error) {
	switch c {
	case domain.CategoryAll:
		return "TRUE", nil
	case domain.CategoryCurrent:
		return "b.start_at <= @now AND b.end_at >= @now", nil
	case domain.CategoryPast:
		return "b.end_at < @now", nil
	case domain.CategoryFuture:
		return "b.start_at > @now", nil
	case domain.CategoryWaiting:
		return "b.status = 'WAITING'", nil
	case domain.CategoryRejected:
		return "b.status = 'REJECTED'", nil
	}
	return "", fmt.Errorf("%w: unknown state: %s", domain.ErrValidation, c)
}

// ListApprovedByItem returns the approved bookings of one item, earliest first.
func (r *pgBookingRepo) ListApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE b.item_id = @item_id AND b.status = 'APPROVED'
		ORDER BY b.start_at ASC, b.seq ASC`

	bookings, err := r.queryBookings(ctx, q, pgx.NamedArgs{"item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListApprovedByItem: %w", err)
	}
	return bookings, nil
}

// ExistsFinished reports whether a completed, approved booking exists.
func (r *pgBookingRepo) ExistsFinished(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE booker_id = @booker_id
			  AND item_id = @item_id
			  AND status = 'APPROVED'
			  AND end_at < @now
		)`

	var exists bool
	args := pgx.NamedArgs{"booker_id": bookerID, "item_id": itemID, "now": now}
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.BookingRepo.ExistsFinished: %w", err)
	}
	return exists, nil
}

// queryBookings runs a multi-row booking query. It always returns a non-nil
// slice on success.
func (r *pgBookingRepo) queryBookings(ctx context.Context, sql string, args pgx.NamedArgs) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bookings, nil
}

// scanBooking maps a single row in bookingColumns order into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                           domain.Booking
		id, itemID, bookerID, owner pgtype.UUID
		status                      string
	)

	err := s.Scan(&id, &itemID, &bookerID, &owner, &b.Start, &b.End, &status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.ItemID = uuid.UUID(itemID.Bytes)
	b.BookerID = uuid.UUID(bookerID.Bytes)
	b.ItemOwnerID = uuid.UUID(owner.Bytes)
	b.Status = domain.BookingStatus(status)
	if !b.Status.Valid() {
		return domain.Booking{}, fmt.Errorf("unknown booking status %q", status)
	}
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return b, nil
}
