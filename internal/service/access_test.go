package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/shareit/internal/domain"
	"github.com/pkordes/shareit/internal/service"
)

func TestAccessGuard(t *testing.T) {
	b := domain.Booking{ID: uuid.New(), BookerID: uuid.New(), ItemOwnerID: uuid.New()}
	stranger := uuid.New()
	var g service.AccessGuard

	assert.True(t, g.CanView(b.BookerID, b))
	assert.True(t, g.CanView(b.ItemOwnerID, b))
	assert.False(t, g.CanView(stranger, b))

	assert.True(t, g.CanDecide(b.ItemOwnerID, b))
	assert.False(t, g.CanDecide(b.BookerID, b), "the booker cannot approve their own booking")
	assert.False(t, g.CanDecide(stranger, b))
}

func TestCategoryFilter_Query(t *testing.T) {
	f := service.NewCategoryFilter(domain.FixedClock(T))

	q, err := f.Query("past", page(0, 3))
	assert.NoError(t, err)
	assert.Equal(t, domain.CategoryPast, q.Category)
	assert.True(t, q.Now.Equal(T))
	assert.Equal(t, page(0, 3), q.Page)

	_, err = f.Query("SOON", page(0, 3))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.Query("ALL", page(0, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
