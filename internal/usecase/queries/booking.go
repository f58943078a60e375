package queries

import (
	"context"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/domain/user"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID         uuid.UUID  `json:"id"`
	VillaID    uuid.UUID  `json:"villa_id"`
	VillaName  string     `json:"villa_name"`
	UserID     uuid.UUID  `json:"user_id"`
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
	GuestPhone string     `json:"guest_phone,omitempty"`
	CheckIn    time.Time  `json:"check_in"`
	Nights     int        `json:"nights"`
	CheckOut   time.Time  `json:"check_out"`
	TotalCents int64      `json:"total_cents"`
	Status     string     `json:"status"`
	UnitNumber *int       `json:"unit_number,omitempty"`
	SessionID  *string    `json:"session_id,omitempty"`
	PaymentRef *string    `json:"payment_ref,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID         uuid.UUID `json:"id"`
	VillaID    uuid.UUID `json:"villa_id"`
	VillaName  string    `json:"villa_name"`
	GuestName  string    `json:"guest_name"`
	CheckIn    time.Time `json:"check_in"`
	Nights     int       `json:"nights"`
	TotalCents int64     `json:"total_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingDetail is the booking view plus the unit numbers staff may assign
// at check-in. The set is only populated for an approved, unassigned
// booking; it is computed lazily per request, never reserved.
type BookingDetail struct {
	BookingView
	AssignableUnits []int `json:"assignable_units,omitempty"`
}

type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsStaff() bool {
	return a.Role == user.RoleOperator || a.Role == user.RoleAdmin
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDetail, error)
	// GetByIDSystem bypasses actor scoping for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, actor Actor, status *string) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, status *string) ([]*BookingListItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	villas   VillaReadStore
}

func NewBookingQueries(bookings BookingReadStore, villas VillaReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, villas: villas}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDetail, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}

	// A guest only sees their own bookings; not-found avoids leaking ids.
	if !actor.IsStaff() && view.UserID != actor.ID {
		return nil, errs.ErrBookingNotFound
	}

	detail := &BookingDetail{BookingView: *view}
	if view.Status == booking.StatusApproved.String() && view.UnitNumber == nil {
		assignable, err := q.assignableUnits(ctx, view.VillaID)
		if err != nil {
			return nil, err
		}
		detail.AssignableUnits = assignable
	}
	return detail, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, actor Actor, status *string) ([]*BookingListItem, error) {
	if actor.IsStaff() {
		return q.bookings.List(ctx, status)
	}
	return q.bookings.ListByUser(ctx, actor.ID, status)
}

func (q *bookingQueriesImpl) assignableUnits(ctx context.Context, villaID uuid.UUID) ([]int, error) {
	units, err := q.villas.UnitNumbers(ctx, villaID)
	if err != nil {
		return nil, err
	}
	checkedIn, err := q.villas.CheckedInStays(ctx, villaID)
	if err != nil {
		return nil, err
	}
	return booking.AssignableUnits(villaID, units, checkedIn), nil
}
