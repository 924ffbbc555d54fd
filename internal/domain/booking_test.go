package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/shareit/internal/domain"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(h int) time.Time { return t0.Add(time.Duration(h) * time.Hour) }

func TestBookingStatus_Decide(t *testing.T) {
	got, err := domain.StatusWaiting.Decide(true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got)

	got, err = domain.StatusWaiting.Decide(false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got)

	for _, s := range []domain.BookingStatus{domain.StatusApproved, domain.StatusRejected} {
		for _, approve := range []bool{true, false} {
			_, err := s.Decide(approve)
			assert.ErrorIs(t, err, domain.ErrAlreadyDecided, "%s.Decide(%v)", s, approve)
		}
	}
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range []domain.BookingStatus{domain.StatusWaiting, domain.StatusApproved, domain.StatusRejected} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, domain.BookingStatus("CANCELLED").Valid())
	assert.False(t, domain.BookingStatus("waiting").Valid())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(0), at(10), at(0), at(10), true},
		{"partial left", at(0), at(10), at(5), at(15), true},
		{"contained", at(0), at(10), at(2), at(3), true},
		{"containing", at(2), at(3), at(0), at(10), true},
		{"adjacent after", at(0), at(10), at(10), at(20), false},
		{"adjacent before", at(10), at(20), at(0), at(10), false},
		{"disjoint", at(0), at(1), at(5), at(6), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, domain.Overlaps(tc.s2, tc.e2, tc.s1, tc.e1), "overlap is symmetric")
		})
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, domain.ValidateInterval(at(0), at(1)))

	err := domain.ValidateInterval(at(1), at(1))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "end must be after start")

	assert.ErrorIs(t, domain.ValidateInterval(at(2), at(1)), domain.ErrValidation)
	assert.ErrorIs(t, domain.ValidateInterval(time.Time{}, at(1)), domain.ErrValidation)
	assert.ErrorIs(t, domain.ValidateInterval(at(1), time.Time{}), domain.ErrValidation)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "BOOKER", domain.RoleBooker.String())
	assert.Equal(t, "OWNER", domain.RoleOwner.String())
}
