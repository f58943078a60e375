package shared

import (
	"context"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: direct access to command-side reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Villas() VillaRepository
	Reads() CommandReads
	DB() db.DBTX
}

// Write-side snapshots keep commands independent of read-side view types
type VillaSnapshot struct {
	ID               uuid.UUID
	Name             string
	NightlyRateCents int64
	Occupancy        int
	TotalUnits       int
}

type BookingSnapshot struct {
	ID         uuid.UUID
	VillaID    uuid.UUID
	UserID     uuid.UUID
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    time.Time
	Nights     int
	TotalCents int64
	Status     booking.Status
	UnitNumber *int
	SessionID  *string
	PaymentRef *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToDomain reconstructs the aggregate from a persisted snapshot.
func (s *BookingSnapshot) ToDomain() (*booking.Booking, error) {
	guest, err := booking.NewGuest(s.GuestName, s.GuestEmail, s.GuestPhone)
	if err != nil {
		return nil, err
	}
	stay, err := booking.NewStayPeriod(s.CheckIn, s.Nights)
	if err != nil {
		return nil, err
	}
	total, err := booking.NewMoney(s.TotalCents)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		s.ID, s.VillaID, s.UserID,
		guest, stay, total, s.Status,
		s.UnitNumber, s.SessionID, s.PaymentRef,
		s.CreatedAt, s.UpdatedAt,
	), nil
}

type BookingRepository interface {
	Create(ctx context.Context, db db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// FindForUpdate locks the booking row for the rest of the transaction.
	FindForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*BookingSnapshot, error)
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status booking.Status, unitNumber *int) error
	UpdatePaymentRefs(ctx context.Context, db db.DBTX, id uuid.UUID, sessionID string, paymentRef *string) error
}

type VillaRepository interface {
	// Lock takes the per-villa row lock that serializes
	// availability-check-then-commit and unit assignment for one villa.
	Lock(ctx context.Context, db db.DBTX, villaID uuid.UUID) error
}

type CommandReads interface {
	VillaByID(ctx context.Context, id uuid.UUID) (*VillaSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// CommittedStays returns the villa's Approved and CheckedIn stays.
	CommittedStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error)
	// CheckedInStays returns the stays currently holding a unit.
	CheckedInStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error)
	UnitNumbers(ctx context.Context, villaID uuid.UUID) ([]int, error)
}
