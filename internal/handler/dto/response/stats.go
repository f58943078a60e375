package response

import (
	"time"

	"lagoon-booking/internal/usecase/queries"
)

type BookingTotalsResponse struct {
	TotalCount         int64     `json:"totalCount"`
	CurrentMonthCount  int64     `json:"currentMonthCount"`
	PreviousMonthCount int64     `json:"previousMonthCount"`
	TotalRevenueCents  int64     `json:"totalRevenueCents"`
	HasIncreased       bool      `json:"hasIncreased"`
	WindowStart        time.Time `json:"windowStart"`
}

func FromBookingTotalsView(rm *queries.BookingTotalsView) *BookingTotalsResponse {
	return &BookingTotalsResponse{
		TotalCount:         rm.TotalCount,
		CurrentMonthCount:  rm.CurrentMonthCount,
		PreviousMonthCount: rm.PreviousMonthCount,
		TotalRevenueCents:  rm.TotalRevenueCents,
		HasIncreased:       rm.HasIncreased,
		WindowStart:        rm.WindowStart,
	}
}
