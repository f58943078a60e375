package request

import "time"

// StayQuery is shared by the villa-list and single-villa availability
// endpoints.
type StayQuery struct {
	CheckIn string `form:"check_in" binding:"required"`
	Nights  int    `form:"nights" binding:"required,min=1"`
}

func (q StayQuery) ParseCheckIn() (time.Time, error) {
	return time.Parse(time.DateOnly, q.CheckIn)
}

type BookingListQuery struct {
	Status *string `form:"status"`
}
