package repository

import (
	"context"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// commandReads serves the write path's snapshot lookups. Bound to a DBTX so
// the same queries run inside a transaction or against the pool.
type commandReads struct {
	q db.DBTX
}

func NewCommandReads(q db.DBTX) shared.CommandReads {
	return &commandReads{q: q}
}

const selectVillaSnapshotSQL = `
SELECT v.id, v.name, v.nightly_rate_cents, v.occupancy,
       (SELECT count(*) FROM villa_units u WHERE u.villa_id = v.id) AS total_units
FROM villas v
WHERE v.id = $1
`

func (r *commandReads) VillaByID(ctx context.Context, id uuid.UUID) (*shared.VillaSnapshot, error) {
	var snap shared.VillaSnapshot
	err := r.q.QueryRow(ctx, selectVillaSnapshotSQL, id).Scan(
		&snap.ID, &snap.Name, &snap.NightlyRateCents, &snap.Occupancy, &snap.TotalUnits,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("villa not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find villa", err)
	}
	return &snap, nil
}

const selectBookingSnapshotSQL = `
SELECT id, villa_id, user_id,
       guest_name, guest_email, guest_phone,
       check_in, nights, total_cents, status,
       unit_number, session_id, payment_ref,
       created_at, updated_at
FROM bookings
WHERE id = $1
`

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row := r.q.QueryRow(ctx, selectBookingSnapshotSQL, id)

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
		return nil, infra.WrapRepoErr("failed to find booking", err)
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

const selectStaysSQL = `
SELECT villa_id, check_in, nights, status, unit_number
FROM bookings
WHERE villa_id = $1 AND status = ANY($2)
`

func (r *commandReads) CommittedStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return r.stays(ctx, villaID, []string{
		booking.StatusApproved.String(),
		booking.StatusCheckedIn.String(),
	})
}

func (r *commandReads) CheckedInStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return r.stays(ctx, villaID, []string{booking.StatusCheckedIn.String()})
}

func (r *commandReads) stays(ctx context.Context, villaID uuid.UUID, statuses []string) ([]booking.CommittedStay, error) {
	rows, err := r.q.Query(ctx, selectStaysSQL, villaID, statuses)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stays", err)
	}
	defer rows.Close()

	var out []booking.CommittedStay
	for rows.Next() {
		var (
			vid        uuid.UUID
			checkIn    pgtype.Date
			nights     int
			status     string
			unitNumber pgtype.Int4
		)
		if err := rows.Scan(&vid, &checkIn, &nights, &status, &unitNumber); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stay", err)
		}
		stay, err := booking.NewStayPeriod(pgconv.DateFromPgtype(checkIn), nights)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt stay row", err)
		}
		out = append(out, booking.CommittedStay{
			VillaID:    vid,
			Stay:       stay,
			Status:     booking.Status(status),
			UnitNumber: pgconv.IntPtrFromPgtype(unitNumber),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stays", err)
	}
	return out, nil
}

const selectUnitNumbersSQL = `
SELECT unit_number FROM villa_units WHERE villa_id = $1 ORDER BY unit_number
`

func (r *commandReads) UnitNumbers(ctx context.Context, villaID uuid.UUID) ([]int, error) {
	rows, err := r.q.Query(ctx, selectUnitNumbersSQL, villaID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list villa units", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, infra.WrapRepoErr("failed to scan unit number", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate villa units", err)
	}
	return out, nil
}
