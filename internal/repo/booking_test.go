package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/shareit/internal/domain"
	"github.com/pkordes/shareit/internal/repo"
	"github.com/pkordes/shareit/testutil"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// stores bundles the three repos of one backend.
type stores struct {
	users    repo.UserRepo
	items    repo.ItemRepo
	bookings repo.BookingRepo
}

// backends returns every store implementation under test. The Postgres one
// runs inside a transaction that is rolled back when the test ends and is
// left out when TEST_DATABASE_URL is unset.
func backends(t *testing.T) map[string]func(t *testing.T) stores {
	t.Helper()
	return map[string]func(t *testing.T) stores{
		"memory": func(*testing.T) stores {
			m := repo.NewMemoryStore()
			return stores{users: m.Users(), items: m.Items(), bookings: m.Bookings()}
		},
		"postgres": func(t *testing.T) stores {
			tx := testutil.NewTx(t)
			return stores{
				users:    repo.NewUserRepo(tx),
				items:    repo.NewItemRepo(tx),
				bookings: repo.NewBookingRepo(tx),
			}
		},
	}
}

// forEachBackend runs fn once per store implementation as a subtest.
func forEachBackend(t *testing.T, fn func(t *testing.T, s stores)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

// seed holds an owner, their item, and a booker.
type seed struct {
	owner  domain.User
	booker domain.User
	item   domain.Item
}

func newUser(t *testing.T, s stores) domain.User {
	t.Helper()
	u, err := s.users.Create(context.Background(), domain.User{
		Name:  gofakeit.Name(),
		Email: uuid.NewString() + "@" + gofakeit.DomainName(),
	})
	require.NoError(t, err)
	return u
}

func newItem(t *testing.T, s stores, owner uuid.UUID) domain.Item {
	t.Helper()
	it, err := s.items.Create(context.Background(), domain.Item{
		OwnerID:     owner,
		Name:        gofakeit.ProductName(),
		Description: gofakeit.Sentence(6),
		Available:   true,
	})
	require.NoError(t, err)
	return it
}

func seedStores(t *testing.T, s stores) seed {
	t.Helper()
	owner := newUser(t, s)
	return seed{owner: owner, booker: newUser(t, s), item: newItem(t, s, owner.ID)}
}

func bookingFixture(sd seed, start, end time.Time) domain.Booking {
	return domain.Booking{
		ItemID:   sd.item.ID,
		BookerID: sd.booker.ID,
		Start:    start,
		End:      end,
		Status:   domain.StatusWaiting,
	}
}

func create(t *testing.T, s stores, b domain.Booking) domain.Booking {
	t.Helper()
	got, err := s.bookings.Create(context.Background(), b)
	require.NoError(t, err)
	return got
}

func query(c domain.Category, from, size int) domain.BookingQuery {
	return domain.BookingQuery{Category: c, Now: t0, Page: domain.PageRequest{From: from, Size: size}}
}

func bookingIDs(bookings []domain.Booking) []uuid.UUID {
	out := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

// ---- Create / GetByID ------------------------------------------------------

func TestBookingRepo_CreateAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()

		got := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))

		assert.NotEqual(t, uuid.Nil, got.ID, "ID should be store-generated")
		assert.Equal(t, sd.owner.ID, got.ItemOwnerID)
		assert.Equal(t, domain.StatusWaiting, got.Status)
		assert.True(t, got.Start.Equal(t0.Add(day)))
		assert.False(t, got.CreatedAt.IsZero())

		fetched, err := s.bookings.GetByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got.ID, fetched.ID)
		assert.Equal(t, sd.booker.ID, fetched.BookerID)
		assert.Equal(t, sd.owner.ID, fetched.ItemOwnerID)
	})
}

func TestBookingRepo_GetByID_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		_, err := s.bookings.GetByID(context.Background(), uuid.New())

		assert.True(t, errors.Is(err, domain.ErrNotFound), "want ErrNotFound, got %v", err)
	})
}

func TestBookingRepo_Create_OverlapIsConflict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))

		_, err := s.bookings.Create(context.Background(), bookingFixture(sd, t0.Add(36*time.Hour), t0.Add(3*day)))

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestBookingRepo_Create_AdjacentIsAllowed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))

		_, err := s.bookings.Create(context.Background(), bookingFixture(sd, t0.Add(2*day), t0.Add(3*day)))

		assert.NoError(t, err)
	})
}

func TestBookingRepo_Create_UnknownItem(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		b := bookingFixture(sd, t0.Add(day), t0.Add(2*day))
		b.ItemID = uuid.New()

		_, err := s.bookings.Create(context.Background(), b)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepo_Create_EmptyIntervalIsValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)

		_, err := s.bookings.Create(context.Background(), bookingFixture(sd, t0.Add(day), t0.Add(day)))

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

// ---- FindOverlapping -------------------------------------------------------

func TestBookingRepo_FindOverlapping(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		hit := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))
		create(t, s, bookingFixture(sd, t0.Add(3*day), t0.Add(4*day)))

		got, err := s.bookings.FindOverlapping(ctx, sd.item.ID, t0.Add(36*time.Hour), t0.Add(3*day))
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{hit.ID}, bookingIDs(got))

		got, err = s.bookings.FindOverlapping(ctx, sd.item.ID, t0.Add(2*day), t0.Add(3*day))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got, "touching endpoints do not overlap")

		got, err = s.bookings.FindOverlapping(ctx, uuid.New(), t0, t0.Add(10*day))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

// ---- DecideStatus ----------------------------------------------------------

func TestBookingRepo_DecideStatus(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		b := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))

		got, err := s.bookings.DecideStatus(ctx, b.ID, domain.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, got.Status)
		assert.Equal(t, sd.owner.ID, got.ItemOwnerID)

		_, err = s.bookings.DecideStatus(ctx, b.ID, domain.StatusRejected)
		assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

		fetched, err := s.bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, fetched.Status)

		_, err = s.bookings.DecideStatus(ctx, uuid.New(), domain.StatusApproved)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// ---- List ------------------------------------------------------------------

func TestBookingRepo_ListByBooker_OrderAndPage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		a := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))
		c := create(t, s, bookingFixture(sd, t0.Add(5*day), t0.Add(6*day)))
		b := create(t, s, bookingFixture(sd, t0.Add(3*day), t0.Add(4*day)))

		got, err := s.bookings.ListByBooker(ctx, sd.booker.ID, query(domain.CategoryAll, 0, 10))
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID, b.ID, a.ID}, bookingIDs(got))

		got, err = s.bookings.ListByBooker(ctx, sd.booker.ID, query(domain.CategoryAll, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, bookingIDs(got))

		got, err = s.bookings.ListByBooker(ctx, sd.owner.ID, query(domain.CategoryAll, 0, 10))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestBookingRepo_ListByBooker_TiesKeepInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		other := newItem(t, s, sd.owner.ID)
		first := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))
		b := bookingFixture(sd, t0.Add(day), t0.Add(3*day))
		b.ItemID = other.ID
		second := create(t, s, b)

		got, err := s.bookings.ListByBooker(context.Background(), sd.booker.ID, query(domain.CategoryAll, 0, 10))

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID, second.ID}, bookingIDs(got))
	})
}

func TestBookingRepo_ListByOwner_Categories(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		past := create(t, s, bookingFixture(sd, t0.Add(-3*day), t0.Add(-2*day)))
		current := create(t, s, bookingFixture(sd, t0.Add(-day), t0.Add(day)))
		future := create(t, s, bookingFixture(sd, t0.Add(2*day), t0.Add(3*day)))
		_, err := s.bookings.DecideStatus(ctx, future.ID, domain.StatusRejected)
		require.NoError(t, err)

		tests := []struct {
			category domain.Category
			want     []uuid.UUID
		}{
			{domain.CategoryAll, []uuid.UUID{future.ID, current.ID, past.ID}},
			{domain.CategoryCurrent, []uuid.UUID{current.ID}},
			{domain.CategoryPast, []uuid.UUID{past.ID}},
			{domain.CategoryFuture, []uuid.UUID{future.ID}},
			{domain.CategoryWaiting, []uuid.UUID{current.ID, past.ID}},
			{domain.CategoryRejected, []uuid.UUID{future.ID}},
		}
		for _, tc := range tests {
			got, err := s.bookings.ListByOwner(ctx, sd.owner.ID, query(tc.category, 0, 10))
			require.NoError(t, err)
			assert.Equal(t, tc.want, bookingIDs(got), "category %s", tc.category)
		}
	})
}

// ---- supplements -----------------------------------------------------------

func TestBookingRepo_ListApprovedByItem(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		late := create(t, s, bookingFixture(sd, t0.Add(5*day), t0.Add(6*day)))
		create(t, s, bookingFixture(sd, t0.Add(3*day), t0.Add(4*day)))
		early := create(t, s, bookingFixture(sd, t0.Add(day), t0.Add(2*day)))
		for _, b := range []domain.Booking{late, early} {
			_, err := s.bookings.DecideStatus(ctx, b.ID, domain.StatusApproved)
			require.NoError(t, err)
		}

		got, err := s.bookings.ListApprovedByItem(ctx, sd.item.ID)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{early.ID, late.ID}, bookingIDs(got))
	})
}

func TestBookingRepo_ExistsFinished(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		sd := seedStores(t, s)
		ctx := context.Background()
		b := create(t, s, bookingFixture(sd, t0.Add(-3*day), t0.Add(-2*day)))

		done, err := s.bookings.ExistsFinished(ctx, sd.booker.ID, sd.item.ID, t0)
		require.NoError(t, err)
		assert.False(t, done, "waiting bookings do not count")

		_, err = s.bookings.DecideStatus(ctx, b.ID, domain.StatusApproved)
		require.NoError(t, err)

		done, err = s.bookings.ExistsFinished(ctx, sd.booker.ID, sd.item.ID, t0)
		require.NoError(t, err)
		assert.True(t, done)

		done, err = s.bookings.ExistsFinished(ctx, sd.booker.ID, sd.item.ID, t0.Add(-3*day))
		require.NoError(t, err)
		assert.False(t, done, "not finished yet at that instant")
	})
}
