package booking

import (
	"errors"
	"time"

	"lagoon-booking/internal/domain/villa"
	"lagoon-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidStateTransition = errors.New("invalid booking state transition")
	ErrUnitNotAssignable      = errors.New("unit number is not assignable")
	ErrPaymentRefRequired     = errors.New("payment transaction id is required for approval")
	ErrSessionAlreadyAttached = errors.New("payment session already attached")
)

// Booking is the reservation aggregate. The assigned unit number is set iff
// the status is CheckedIn or Completed; cancellation clears it, completion
// retains it for history.
type Booking struct {
	id         uuid.UUID
	villaID    uuid.UUID
	userID     uuid.UUID
	guest      Guest
	stay       StayPeriod
	totalCost  Money
	status     Status
	unitNumber *int
	sessionID  *string
	paymentRef *string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewBooking creates a Pending booking for a villa snapshot. Total cost is
// the villa's flat nightly rate times nights.
func NewBooking(
	clk clock.Clock,
	v *villa.Villa,
	userID uuid.UUID,
	guest Guest,
	stay StayPeriod,
) (*Booking, error) {
	if stay.StartsBefore(clk.Now()) {
		return nil, ErrCheckInInPast
	}

	rate, err := NewMoney(v.NightlyRateCents())
	if err != nil {
		return nil, err
	}

	now := clk.Now()
	return &Booking{
		id:        uuid.New(),
		villaID:   v.ID(),
		userID:    userID,
		guest:     guest,
		stay:      stay,
		totalCost: rate.MultiplyNights(stay.Nights()),
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Reconstruct(
	id, villaID, userID uuid.UUID,
	guest Guest,
	stay StayPeriod,
	totalCost Money,
	status Status,
	unitNumber *int,
	sessionID, paymentRef *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		villaID:    villaID,
		userID:     userID,
		guest:      guest,
		stay:       stay,
		totalCost:  totalCost,
		status:     status,
		unitNumber: unitNumber,
		sessionID:  sessionID,
		paymentRef: paymentRef,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// AttachPaymentSession records the external checkout session. Only valid
// while the booking is still Pending.
func (b *Booking) AttachPaymentSession(sessionID, paymentRef string) error {
	if b.status != StatusPending {
		return ErrInvalidStateTransition
	}
	b.sessionID = &sessionID
	if paymentRef != "" {
		b.paymentRef = &paymentRef
	}
	return nil
}

// Approve moves Pending -> Approved once the provider reports the session as
// paid, recording the payment transaction id.
func (b *Booking) Approve(paymentRef string) error {
	if paymentRef == "" {
		return ErrPaymentRefRequired
	}
	if err := b.transitionTo(StatusApproved); err != nil {
		return err
	}
	b.paymentRef = &paymentRef
	return nil
}

// CheckIn moves Approved -> CheckedIn and binds a physical unit. Whether the
// unit is actually free is validated by the caller against AssignableUnits;
// the aggregate only guards the state machine and the unit invariant.
func (b *Booking) CheckIn(unitNumber int) error {
	if err := b.transitionTo(StatusCheckedIn); err != nil {
		return err
	}
	b.unitNumber = &unitNumber
	return nil
}

// Complete moves CheckedIn -> Completed. The unit number is retained for
// history.
func (b *Booking) Complete() error {
	return b.transitionTo(StatusCompleted)
}

// Cancel is reachable from Pending, Approved and CheckedIn and is terminal.
// The unit number is cleared; a cancelled booking never occupies inventory.
func (b *Booking) Cancel() error {
	if err := b.transitionTo(StatusCancelled); err != nil {
		return err
	}
	b.unitNumber = nil
	return nil
}

func (b *Booking) transitionTo(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidStateTransition
	}
	b.status = next
	return nil
}

func (b *Booking) ConsumesInventory() bool {
	return b.status.ConsumesInventory()
}

func (b *Booking) ID() uuid.UUID       { return b.id }
func (b *Booking) VillaID() uuid.UUID  { return b.villaID }
func (b *Booking) UserID() uuid.UUID   { return b.userID }
func (b *Booking) Guest() Guest        { return b.guest }
func (b *Booking) Stay() StayPeriod    { return b.stay }
func (b *Booking) TotalCost() Money    { return b.totalCost }
func (b *Booking) Status() Status      { return b.status }
func (b *Booking) UnitNumber() *int    { return b.unitNumber }
func (b *Booking) SessionID() *string  { return b.sessionID }
func (b *Booking) PaymentRef() *string { return b.paymentRef }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
