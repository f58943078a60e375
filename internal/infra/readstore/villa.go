package readstore

import (
	"context"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type villaReadStore struct {
	q db.DBTX
}

func NewVillaReadStore(q db.DBTX) queries.VillaReadStore {
	return &villaReadStore{q: q}
}

const selectVillaViewSQL = `
SELECT v.id, v.name, v.nightly_rate_cents, v.occupancy,
       (SELECT count(*) FROM villa_units u WHERE u.villa_id = v.id) AS total_units
FROM villas v
WHERE v.id = $1
`

func (s *villaReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VillaView, error) {
	var v queries.VillaView
	err := s.q.QueryRow(ctx, selectVillaViewSQL, id).Scan(
		&v.ID, &v.Name, &v.NightlyRateCents, &v.Occupancy, &v.TotalUnits,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("villa not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find villa", err)
	}
	return &v, nil
}

const listVillasSQL = `
SELECT v.id, v.name, v.nightly_rate_cents, v.occupancy,
       (SELECT count(*) FROM villa_units u WHERE u.villa_id = v.id) AS total_units
FROM villas v
ORDER BY v.name
`

func (s *villaReadStore) ListAll(ctx context.Context) ([]*queries.VillaView, error) {
	rows, err := s.q.Query(ctx, listVillasSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list villas", err)
	}
	defer rows.Close()

	var out []*queries.VillaView
	for rows.Next() {
		var v queries.VillaView
		if err := rows.Scan(&v.ID, &v.Name, &v.NightlyRateCents, &v.Occupancy, &v.TotalUnits); err != nil {
			return nil, infra.WrapRepoErr("failed to scan villa", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate villas", err)
	}
	return out, nil
}

const selectUnitNumbersSQL = `
SELECT unit_number FROM villa_units WHERE villa_id = $1 ORDER BY unit_number
`

func (s *villaReadStore) UnitNumbers(ctx context.Context, villaID uuid.UUID) ([]int, error) {
	rows, err := s.q.Query(ctx, selectUnitNumbersSQL, villaID)
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

const selectStaysByStatusSQL = `
SELECT villa_id, check_in, nights, status, unit_number
FROM bookings
WHERE villa_id = $1 AND status = ANY($2)
`

func (s *villaReadStore) CommittedStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return s.stays(ctx, villaID, []string{
		booking.StatusApproved.String(),
		booking.StatusCheckedIn.String(),
	})
}

func (s *villaReadStore) CheckedInStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return s.stays(ctx, villaID, []string{booking.StatusCheckedIn.String()})
}

func (s *villaReadStore) stays(ctx context.Context, villaID uuid.UUID, statuses []string) ([]booking.CommittedStay, error) {
	rows, err := s.q.Query(ctx, selectStaysByStatusSQL, villaID, statuses)
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
