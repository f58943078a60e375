package repository

import (
	"context"
	"errors"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type bookingRepository struct{}

func NewBookingRepository() shared.BookingRepository {
	return &bookingRepository{}
}

const insertBookingSQL = `
INSERT INTO bookings (
    id, villa_id, user_id,
    guest_name, guest_email, guest_phone,
    check_in, nights, total_cents, status,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (r *bookingRepository) Create(ctx context.Context, q db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	_, err := q.Exec(ctx, insertBookingSQL,
		b.ID(), b.VillaID(), b.UserID(),
		b.Guest().Name(), b.Guest().Email(), b.Guest().Phone(),
		pgconv.DateToPgtype(b.Stay().CheckIn()), b.Stay().Nights(),
		b.TotalCost().Cents(), b.Status().String(),
		pgconv.TimeToPgtype(b.CreatedAt()), pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return uuid.Nil, wrapPgError("failed to insert booking", err)
	}
	return b.ID(), nil
}

const selectBookingForUpdateSQL = `
SELECT id, villa_id, user_id,
       guest_name, guest_email, guest_phone,
       check_in, nights, total_cents, status,
       unit_number, session_id, payment_ref,
       created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE
`

func (r *bookingRepository) FindForUpdate(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row := q.QueryRow(ctx, selectBookingForUpdateSQL, id)

	var (
		snap       shared.BookingSnapshot
		status     string
		checkIn    pgtype.Date
		unitNumber pgtype.Int4
		sessionID  pgtype.Text
		paymentRef pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := row.Scan(
		&snap.ID, &snap.VillaID, &snap.UserID,
		&snap.GuestName, &snap.GuestEmail, &snap.GuestPhone,
		&checkIn, &snap.Nights, &snap.TotalCents, &status,
		&unitNumber, &sessionID, &paymentRef,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking row", err)
	}

	snap.Status = booking.Status(status)
	snap.CheckIn = pgconv.DateFromPgtype(checkIn)
	snap.UnitNumber = pgconv.IntPtrFromPgtype(unitNumber)
	snap.SessionID = pgconv.StringPtrFromPgtype(sessionID)
	snap.PaymentRef = pgconv.StringPtrFromPgtype(paymentRef)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, unit_number = $3, updated_at = now()
WHERE id = $1
`

func (r *bookingRepository) UpdateStatus(ctx context.Context, q db.DBTX, id uuid.UUID, status booking.Status, unitNumber *int) error {
	tag, err := q.Exec(ctx, updateBookingStatusSQL, id, status.String(), pgconv.IntPtrToPgtype(unitNumber))
	if err != nil {
		return wrapPgError("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const updateBookingPaymentRefsSQL = `
UPDATE bookings
SET session_id = $2, payment_ref = $3, updated_at = now()
WHERE id = $1
`

func (r *bookingRepository) UpdatePaymentRefs(ctx context.Context, q db.DBTX, id uuid.UUID, sessionID string, paymentRef *string) error {
	tag, err := q.Exec(ctx, updateBookingPaymentRefsSQL, id, sessionID, pgconv.StringPtrToPgtype(paymentRef))
	if err != nil {
		return wrapPgError("failed to update booking payment refs", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func wrapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case "23503":
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
