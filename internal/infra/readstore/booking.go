package readstore

import (
	"context"

	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type bookingReadStore struct {
	q db.DBTX
}

func NewBookingReadStore(q db.DBTX) queries.BookingReadStore {
	return &bookingReadStore{q: q}
}

const selectBookingViewSQL = `
SELECT b.id, b.villa_id, v.name, b.user_id,
       b.guest_name, b.guest_email, b.guest_phone,
       b.check_in, b.nights, b.total_cents, b.status,
       b.unit_number, b.session_id, b.payment_ref,
       b.created_at, b.updated_at
FROM bookings b
JOIN villas v ON v.id = b.villa_id
WHERE b.id = $1
`

func (s *bookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.q.QueryRow(ctx, selectBookingViewSQL, id)
	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

const listBookingsSQL = `
SELECT b.id, b.villa_id, v.name, b.guest_name,
       b.check_in, b.nights, b.total_cents, b.status, b.created_at
FROM bookings b
JOIN villas v ON v.id = b.villa_id
WHERE ($1::text IS NULL OR b.status = $1)
ORDER BY b.created_at DESC
`

func (s *bookingReadStore) List(ctx context.Context, status *string) ([]*queries.BookingListItem, error) {
	rows, err := s.q.Query(ctx, listBookingsSQL, pgconv.StringPtrToPgtype(status))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()
	return scanBookingListItems(rows)
}

const listBookingsByUserSQL = `
SELECT b.id, b.villa_id, v.name, b.guest_name,
       b.check_in, b.nights, b.total_cents, b.status, b.created_at
FROM bookings b
JOIN villas v ON v.id = b.villa_id
WHERE b.user_id = $1
  AND ($2::text IS NULL OR b.status = $2)
ORDER BY b.created_at DESC
`

func (s *bookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*queries.BookingListItem, error) {
	rows, err := s.q.Query(ctx, listBookingsByUserSQL, userID, pgconv.StringPtrToPgtype(status))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	defer rows.Close()
	return scanBookingListItems(rows)
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		view       queries.BookingView
		checkIn    pgtype.Date
		unitNumber pgtype.Int4
		sessionID  pgtype.Text
		paymentRef pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.VillaID, &view.VillaName, &view.UserID,
		&view.GuestName, &view.GuestEmail, &view.GuestPhone,
		&checkIn, &view.Nights, &view.TotalCents, &view.Status,
		&unitNumber, &sessionID, &paymentRef,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.CheckIn = pgconv.DateFromPgtype(checkIn)
	view.CheckOut = view.CheckIn.AddDate(0, 0, view.Nights)
	view.UnitNumber = pgconv.IntPtrFromPgtype(unitNumber)
	view.SessionID = pgconv.StringPtrFromPgtype(sessionID)
	view.PaymentRef = pgconv.StringPtrFromPgtype(paymentRef)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func scanBookingListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	var out []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			checkIn   pgtype.Date
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(
			&item.ID, &item.VillaID, &item.VillaName, &item.GuestName,
			&checkIn, &item.Nights, &item.TotalCents, &item.Status, &createdAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.CheckIn = pgconv.DateFromPgtype(checkIn)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}
