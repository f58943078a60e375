//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/domain/user"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingStore struct {
	views map[uuid.UUID]*BookingView
}

func (s *fakeBookingStore) FindByID(_ context.Context, id uuid.UUID) (*BookingView, error) {
	v, ok := s.views[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return v, nil
}

func (s *fakeBookingStore) List(context.Context, *string) ([]*BookingListItem, error) {
	return []*BookingListItem{{VillaName: "all"}}, nil
}

func (s *fakeBookingStore) ListByUser(_ context.Context, userID uuid.UUID, _ *string) ([]*BookingListItem, error) {
	return []*BookingListItem{{VillaName: "own"}}, nil
}

type fakeVillaStore struct {
	units     []int
	checkedIn []booking.CommittedStay
}

func (s *fakeVillaStore) FindByID(context.Context, uuid.UUID) (*VillaView, error) { return nil, nil }
func (s *fakeVillaStore) ListAll(context.Context) ([]*VillaView, error)           { return nil, nil }

func (s *fakeVillaStore) UnitNumbers(context.Context, uuid.UUID) ([]int, error) {
	return s.units, nil
}

func (s *fakeVillaStore) CommittedStays(context.Context, uuid.UUID) ([]booking.CommittedStay, error) {
	return nil, nil
}

func (s *fakeVillaStore) CheckedInStays(context.Context, uuid.UUID) ([]booking.CommittedStay, error) {
	return s.checkedIn, nil
}

func newView(ownerID uuid.UUID, status booking.Status) *BookingView {
	return &BookingView{
		ID:      uuid.New(),
		VillaID: uuid.New(),
		UserID:  ownerID,
		Status:  status.String(),
		CheckIn: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Nights:  3,
	}
}

func TestBookingQueries_GetByID(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner sees own booking", func(t *testing.T) {
		view := newView(ownerID, booking.StatusPending)
		q := NewBookingQueries(
			&fakeBookingStore{views: map[uuid.UUID]*BookingView{view.ID: view}},
			&fakeVillaStore{},
		)

		detail, err := q.GetByID(context.Background(), Actor{ID: ownerID, Role: user.RoleViewer}, view.ID)

		require.NoError(t, err)
		assert.Equal(t, view.ID, detail.ID)
		assert.Empty(t, detail.AssignableUnits)
	})

	t.Run("another viewer gets not-found, not forbidden", func(t *testing.T) {
		view := newView(ownerID, booking.StatusPending)
		q := NewBookingQueries(
			&fakeBookingStore{views: map[uuid.UUID]*BookingView{view.ID: view}},
			&fakeVillaStore{},
		)

		_, err := q.GetByID(context.Background(), Actor{ID: uuid.New(), Role: user.RoleViewer}, view.ID)

		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("operator sees any booking", func(t *testing.T) {
		view := newView(ownerID, booking.StatusPending)
		q := NewBookingQueries(
			&fakeBookingStore{views: map[uuid.UUID]*BookingView{view.ID: view}},
			&fakeVillaStore{},
		)

		_, err := q.GetByID(context.Background(), Actor{ID: uuid.New(), Role: user.RoleOperator}, view.ID)

		require.NoError(t, err)
	})

	t.Run("approved unassigned booking carries assignable units", func(t *testing.T) {
		view := newView(ownerID, booking.StatusApproved)
		held := 2
		q := NewBookingQueries(
			&fakeBookingStore{views: map[uuid.UUID]*BookingView{view.ID: view}},
			&fakeVillaStore{
				units: []int{1, 2, 3},
				checkedIn: []booking.CommittedStay{
					{VillaID: view.VillaID, Status: booking.StatusCheckedIn, UnitNumber: &held},
				},
			},
		)

		detail, err := q.GetByID(context.Background(), Actor{ID: ownerID, Role: user.RoleViewer}, view.ID)

		require.NoError(t, err)
		if diff := cmp.Diff([]int{1, 3}, detail.AssignableUnits); diff != "" {
			t.Errorf("assignable units mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("checked-in booking has no assignable set", func(t *testing.T) {
		view := newView(ownerID, booking.StatusCheckedIn)
		unit := 1
		view.UnitNumber = &unit
		q := NewBookingQueries(
			&fakeBookingStore{views: map[uuid.UUID]*BookingView{view.ID: view}},
			&fakeVillaStore{units: []int{1, 2}},
		)

		detail, err := q.GetByID(context.Background(), Actor{ID: ownerID, Role: user.RoleViewer}, view.ID)

		require.NoError(t, err)
		assert.Empty(t, detail.AssignableUnits)
	})
}

func TestBookingQueries_List(t *testing.T) {
	q := NewBookingQueries(&fakeBookingStore{}, &fakeVillaStore{})

	t.Run("staff sees everything", func(t *testing.T) {
		items, err := q.List(context.Background(), Actor{ID: uuid.New(), Role: user.RoleAdmin}, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "all", items[0].VillaName)
	})

	t.Run("viewer is scoped to own bookings", func(t *testing.T) {
		items, err := q.List(context.Background(), Actor{ID: uuid.New(), Role: user.RoleViewer}, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "own", items[0].VillaName)
	})
}
