package request

import (
	"strings"
	"time"

	"lagoon-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VillaID    uuid.UUID `json:"villa_id" binding:"required"`
	CheckIn    string    `json:"check_in" binding:"required"`
	Nights     int       `json:"nights" binding:"required,min=1"`
	GuestName  string    `json:"guest_name" binding:"required"`
	GuestEmail string    `json:"guest_email" binding:"required,email"`
	GuestPhone *string   `json:"guest_phone,omitempty"`
}

// ToCommand parses the date-only check-in; times of day never matter to a
// stay.
func (r CreateBookingRequest) ToCommand() (commands.CreateBookingRequest, error) {
	checkIn, err := time.Parse(time.DateOnly, r.CheckIn)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}

	phone := ""
	if r.GuestPhone != nil {
		phone = strings.TrimSpace(*r.GuestPhone)
	}

	return commands.CreateBookingRequest{
		VillaID:    r.VillaID,
		CheckIn:    checkIn,
		Nights:     r.Nights,
		GuestName:  strings.TrimSpace(r.GuestName),
		GuestEmail: strings.TrimSpace(r.GuestEmail),
		GuestPhone: phone,
	}, nil
}

type CheckInRequest struct {
	UnitNumber int `json:"unit_number" binding:"required,min=1"`
}
