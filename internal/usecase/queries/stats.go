package queries

import (
	"context"
	"time"

	"lagoon-booking/internal/pkg/clock"
)

// BookingTotalsView summarizes bookings that ever carried payment intent
// (everything except still-pending ones) over calendar-month windows.
type BookingTotalsView struct {
	TotalCount         int64     `json:"total_count"`
	CurrentMonthCount  int64     `json:"current_month_count"`
	PreviousMonthCount int64     `json:"previous_month_count"`
	TotalRevenueCents  int64     `json:"total_revenue_cents"`
	HasIncreased       bool      `json:"has_increased"`
	WindowStart        time.Time `json:"window_start"`
}

type StatsReadStore interface {
	// CountNonPendingBetween counts bookings created in [from, to) whose
	// status is anything but pending.
	CountNonPendingBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountNonPendingTotal(ctx context.Context) (int64, error)
	SumNonPendingRevenue(ctx context.Context) (int64, error)
}

type StatsQueries interface {
	BookingTotals(ctx context.Context) (*BookingTotalsView, error)
}

type statsQueriesImpl struct {
	store StatsReadStore
	clock clock.Clock
}

func NewStatsQueries(store StatsReadStore, clk clock.Clock) StatsQueries {
	return &statsQueriesImpl{store: store, clock: clk}
}

// MonthWindow derives the current and previous calendar-month boundaries
// from the given instant. Evaluated per request so a long-running process
// never serves a stale month.
func MonthWindow(now time.Time) (prevStart, curStart time.Time) {
	curStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart = curStart.AddDate(0, -1, 0)
	return prevStart, curStart
}

func (q *statsQueriesImpl) BookingTotals(ctx context.Context) (*BookingTotalsView, error) {
	now := q.clock.Now()
	prevStart, curStart := MonthWindow(now)

	total, err := q.store.CountNonPendingTotal(ctx)
	if err != nil {
		return nil, err
	}
	current, err := q.store.CountNonPendingBetween(ctx, curStart, now)
	if err != nil {
		return nil, err
	}
	previous, err := q.store.CountNonPendingBetween(ctx, prevStart, curStart)
	if err != nil {
		return nil, err
	}
	revenue, err := q.store.SumNonPendingRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &BookingTotalsView{
		TotalCount:         total,
		CurrentMonthCount:  current,
		PreviousMonthCount: previous,
		TotalRevenueCents:  revenue,
		HasIncreased:       current > previous,
		WindowStart:        curStart,
	}, nil
}
