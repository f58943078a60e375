//go:build unit

package booking_test

import (
	"testing"
	"time"

	"lagoon-booking/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, checkIn time.Time, nights int) booking.StayPeriod {
	t.Helper()
	s, err := booking.NewStayPeriod(checkIn, nights)
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int { return &v }

func TestAvailableUnitCount(t *testing.T) {
	villaID := uuid.New()
	otherVillaID := uuid.New()

	committed := []booking.CommittedStay{
		{VillaID: villaID, Stay: stay(t, date(2025, time.January, 1), 2), Status: booking.StatusApproved},
		{VillaID: villaID, Stay: stay(t, date(2025, time.January, 2), 2), Status: booking.StatusCheckedIn},
	}

	t.Run("counts overlapping committed bookings", func(t *testing.T) {
		// Jan 1-2 (1 night) overlaps Jan 1-3 but not Jan 2-4
		got := booking.AvailableUnitCount(villaID, 3, stay(t, date(2025, time.January, 1), 1), committed)
		assert.Equal(t, 2, got)
	})

	t.Run("both committed stays overlap a wider candidate", func(t *testing.T) {
		got := booking.AvailableUnitCount(villaID, 3, stay(t, date(2025, time.January, 1), 3), committed)
		assert.Equal(t, 1, got)
	})

	t.Run("disjoint range frees all units", func(t *testing.T) {
		got := booking.AvailableUnitCount(villaID, 3, stay(t, date(2025, time.January, 5), 1), committed)
		assert.Equal(t, 3, got)
	})

	t.Run("checkout date does not block the next check-in", func(t *testing.T) {
		// Jan 2-4 checks out on the 4th; a stay starting Jan 4 is clear of it
		got := booking.AvailableUnitCount(villaID, 1, stay(t, date(2025, time.January, 4), 2), committed)
		assert.Equal(t, 1, got)
	})

	t.Run("never returns negative", func(t *testing.T) {
		got := booking.AvailableUnitCount(villaID, 1, stay(t, date(2025, time.January, 1), 5), committed)
		assert.Equal(t, 0, got)
	})

	t.Run("pending and cancelled never consume inventory", func(t *testing.T) {
		noise := []booking.CommittedStay{
			{VillaID: villaID, Stay: stay(t, date(2025, time.January, 1), 5), Status: booking.StatusPending},
			{VillaID: villaID, Stay: stay(t, date(2025, time.January, 1), 5), Status: booking.StatusCancelled},
			{VillaID: villaID, Stay: stay(t, date(2025, time.January, 1), 5), Status: booking.StatusCompleted},
		}
		got := booking.AvailableUnitCount(villaID, 2, stay(t, date(2025, time.January, 2), 1), noise)
		assert.Equal(t, 2, got)
	})

	t.Run("other villas do not count", func(t *testing.T) {
		other := []booking.CommittedStay{
			{VillaID: otherVillaID, Stay: stay(t, date(2025, time.January, 1), 10), Status: booking.StatusApproved},
		}
		got := booking.AvailableUnitCount(villaID, 2, stay(t, date(2025, time.January, 2), 1), other)
		assert.Equal(t, 2, got)
	})

	t.Run("empty committed set", func(t *testing.T) {
		got := booking.AvailableUnitCount(villaID, 4, stay(t, date(2025, time.June, 1), 7), nil)
		assert.Equal(t, 4, got)
	})
}

func TestAssignableUnits(t *testing.T) {
	villaID := uuid.New()
	units := []int{101, 102, 103}

	t.Run("all free without checked-in bookings", func(t *testing.T) {
		got := booking.AssignableUnits(villaID, units, nil)
		assert.Equal(t, []int{101, 102, 103}, got)
	})

	t.Run("excludes occupied units", func(t *testing.T) {
		checkedIn := []booking.CommittedStay{
			{VillaID: villaID, Status: booking.StatusCheckedIn, UnitNumber: intPtr(102)},
		}
		got := booking.AssignableUnits(villaID, units, checkedIn)
		assert.Equal(t, []int{101, 103}, got)
	})

	t.Run("approved bookings do not occupy units yet", func(t *testing.T) {
		approved := []booking.CommittedStay{
			{VillaID: villaID, Status: booking.StatusApproved, UnitNumber: intPtr(101)},
		}
		got := booking.AssignableUnits(villaID, units, approved)
		assert.Equal(t, []int{101, 102, 103}, got)
	})

	t.Run("other villas' occupancy ignored", func(t *testing.T) {
		checkedIn := []booking.CommittedStay{
			{VillaID: uuid.New(), Status: booking.StatusCheckedIn, UnitNumber: intPtr(101)},
		}
		got := booking.AssignableUnits(villaID, units, checkedIn)
		assert.Equal(t, []int{101, 102, 103}, got)
	})

	t.Run("empty when all units occupied", func(t *testing.T) {
		checkedIn := []booking.CommittedStay{
			{VillaID: villaID, Status: booking.StatusCheckedIn, UnitNumber: intPtr(101)},
			{VillaID: villaID, Status: booking.StatusCheckedIn, UnitNumber: intPtr(102)},
			{VillaID: villaID, Status: booking.StatusCheckedIn, UnitNumber: intPtr(103)},
		}
		got := booking.AssignableUnits(villaID, units, checkedIn)
		assert.Empty(t, got)
	})
}

func TestIsAssignable(t *testing.T) {
	villaID := uuid.New()
	units := []int{201, 202}
	checkedIn := []booking.CommittedStay{
		{VillaID: villaID, Status: booking.StatusCheckedIn, UnitNumber: intPtr(201)},
	}

	assert.False(t, booking.IsAssignable(villaID, 201, units, checkedIn))
	assert.True(t, booking.IsAssignable(villaID, 202, units, checkedIn))
	assert.False(t, booking.IsAssignable(villaID, 999, units, checkedIn))
}
