package readstore

import (
	"context"
	"time"

	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/queries"
)

type statsReadStore struct {
	q db.DBTX
}

func NewStatsReadStore(q db.DBTX) queries.StatsReadStore {
	return &statsReadStore{q: q}
}

const countNonPendingBetweenSQL = `
SELECT count(*)
FROM bookings
WHERE status <> 'pending'
  AND created_at >= $1 AND created_at < $2
`

func (s *statsReadStore) CountNonPendingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, countNonPendingBetweenSQL,
		pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to),
	).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings in window", err)
	}
	return n, nil
}

const countNonPendingTotalSQL = `
SELECT count(*) FROM bookings WHERE status <> 'pending'
`

func (s *statsReadStore) CountNonPendingTotal(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, countNonPendingTotalSQL).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	return n, nil
}

const sumNonPendingRevenueSQL = `
SELECT coalesce(sum(total_cents), 0) FROM bookings WHERE status <> 'pending'
`

func (s *statsReadStore) SumNonPendingRevenue(ctx context.Context) (int64, error) {
	var cents int64
	if err := s.q.QueryRow(ctx, sumNonPendingRevenueSQL).Scan(&cents); err != nil {
		return 0, infra.WrapRepoErr("failed to sum booking revenue", err)
	}
	return cents, nil
}
