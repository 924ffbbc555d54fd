package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/shareit/internal/domain"
)

// MemoryStore keeps users, items, and bookings in process memory. It backs
// STORAGE=memory and service-level tests. One mutex guards all three tables,
// so the overlap check and the insert in Bookings().Create are atomic, as
// the exclusion constraint makes them in Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]domain.User
	items    map[uuid.UUID]domain.Item
	bookings []domain.Booking // insertion order; list ties fall back to it
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]domain.User),
		items: make(map[uuid.UUID]domain.Item),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the UserRepo view of the store.
func (m *MemoryStore) Users() UserRepo { return memUserRepo{m} }

// Items returns the ItemRepo view of the store.
func (m *MemoryStore) Items() ItemRepo { return memItemRepo{m} }

// Bookings returns the BookingRepo view of the store.
func (m *MemoryStore) Bookings() BookingRepo { return memBookingRepo{m} }

// --- users ------------------------------------------------------------------

type memUserRepo struct{ m *MemoryStore }

func (r memUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.users {
		if u.Email != "" && existing.Email == u.Email {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w: users_email_key", domain.ErrConflict)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.m.now()
	r.m.users[u.ID] = u
	return u, nil
}

func (r memUserRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	_, ok := r.m.users[id]
	return ok, nil
}

// --- items ------------------------------------------------------------------

type memItemRepo struct{ m *MemoryStore }

func (r memItemRepo) Create(_ context.Context, it domain.Item) (domain.Item, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[it.OwnerID]; !ok {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w: items_owner_id_fkey", domain.ErrNotFound)
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = r.m.now()
	r.m.items[it.ID] = it
	return it, nil
}

func (r memItemRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Item, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	it, ok := r.m.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	return it, nil
}

func (r memItemRepo) ExistsByOwner(_ context.Context, ownerID uuid.UUID) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, it := range r.m.items {
		if it.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

// --- bookings ---------------------------------------------------------------

type memBookingRepo struct{ m *MemoryStore }

func (r memBookingRepo) Create(_ context.Context, b domain.Booking) (domain.Booking, error) {
	if err := domain.ValidateInterval(b.Start, b.End); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	it, ok := r.m.items[b.ItemID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w: bookings_item_id_fkey", domain.ErrNotFound)
	}
	if _, ok := r.m.users[b.BookerID]; !ok {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w: bookings_booker_id_fkey", domain.ErrNotFound)
	}
	for _, existing := range r.m.bookings {
		if existing.ItemID == b.ItemID && domain.Overlaps(existing.Start, existing.End, b.Start, b.End) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w: overlapping booking", domain.ErrConflict)
		}
	}

	b.ID = uuid.New()
	b.ItemOwnerID = it.OwnerID
	b.CreatedAt = r.m.now()
	r.m.bookings = append(r.m.bookings, b)
	return b, nil
}

func (r memBookingRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	if i := r.m.indexOf(id); i >= 0 {
		return r.m.bookings[i], nil
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", domain.ErrNotFound)
}

func (r memBookingRepo) FindOverlapping(_ context.Context, itemID uuid.UUID, start, end time.Time) ([]domain.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range r.m.bookings {
		if b.ItemID == itemID && domain.Overlaps(b.Start, b.End, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBookingRepo) DecideStatus(_ context.Context, id uuid.UUID, to domain.BookingStatus) (domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	i := r.m.indexOf(id)
	if i < 0 {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.DecideStatus: %w", domain.ErrNotFound)
	}
	if r.m.bookings[i].Status != domain.StatusWaiting {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.DecideStatus: %w: status is %s",
			domain.ErrAlreadyDecided, r.m.bookings[i].Status)
	}
	r.m.bookings[i].Status = to
	return r.m.bookings[i], nil
}

func (r memBookingRepo) ListByBooker(_ context.Context, bookerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error) {
	return r.m.selectBookings(q, func(b domain.Booking) bool { return b.BookerID == bookerID }), nil
}

func (r memBookingRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, q domain.BookingQuery) ([]domain.Booking, error) {
	return r.m.selectBookings(q, func(b domain.Booking) bool { return b.ItemOwnerID == ownerID }), nil
}

func (r memBookingRepo) ListApprovedByItem(_ context.Context, itemID uuid.UUID) ([]domain.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range r.m.bookings {
		if b.ItemID == itemID && b.Status == domain.StatusApproved {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Booking) int { return a.Start.Compare(b.Start) })
	return out, nil
}

func (r memBookingRepo) ExistsFinished(_ context.Context, bookerID, itemID uuid.UUID, now time.Time) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, b := range r.m.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID &&
			b.Status == domain.StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

// indexOf returns the position of booking id, or -1. Callers hold the lock.
func (m *MemoryStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(m.bookings, func(b domain.Booking) bool { return b.ID == id })
}

// selectBookings snapshots the scoped bookings and lets the query filter,
// order, and page them.
func (m *MemoryStore) selectBookings(q domain.BookingQuery, scope func(domain.Booking) bool) []domain.Booking {
	m.mu.RLock()
	scoped := make([]domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if scope(b) {
			scoped = append(scoped, b)
		}
	}
	m.mu.RUnlock()

	return q.Apply(scoped)
}
