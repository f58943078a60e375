package response

import (
	"time"

	"lagoon-booking/internal/usecase/commands"
	"lagoon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	VillaID    uuid.UUID `json:"villaId"`
	VillaName  string    `json:"villaName"`
	UserID     uuid.UUID `json:"userId"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail"`
	GuestPhone string    `json:"guestPhone,omitempty"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	Nights     int       `json:"nights"`
	TotalCents int64     `json:"totalCents"`
	Status     string    `json:"status"`
	UnitNumber *int      `json:"unitNumber,omitempty"`
	PaymentRef *string   `json:"paymentRef,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type BookingDetailResponse struct {
	BookingResponse
	AssignableUnits []int `json:"assignableUnits,omitempty"`
}

type BookingListResponse struct {
	ID         uuid.UUID `json:"id"`
	VillaID    uuid.UUID `json:"villaId"`
	VillaName  string    `json:"villaName"`
	GuestName  string    `json:"guestName"`
	CheckIn    string    `json:"checkIn"`
	Nights     int       `json:"nights"`
	TotalCents int64     `json:"totalCents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateBookingResponse struct {
	Booking     BookingResponse `json:"booking"`
	RedirectURL string          `json:"redirectUrl"`
}

type ConfirmPaymentResponse struct {
	Booking BookingResponse `json:"booking"`
	Paid    bool            `json:"paid"`
}

func FromBookingView(rm *queries.BookingView) BookingResponse {
	return BookingResponse{
		ID:         rm.ID,
		VillaID:    rm.VillaID,
		VillaName:  rm.VillaName,
		UserID:     rm.UserID,
		GuestName:  rm.GuestName,
		GuestEmail: rm.GuestEmail,
		GuestPhone: rm.GuestPhone,
		CheckIn:    rm.CheckIn.Format(time.DateOnly),
		CheckOut:   rm.CheckOut.Format(time.DateOnly),
		Nights:     rm.Nights,
		TotalCents: rm.TotalCents,
		Status:     rm.Status,
		UnitNumber: rm.UnitNumber,
		PaymentRef: rm.PaymentRef,
		CreatedAt:  rm.CreatedAt,
		UpdatedAt:  rm.UpdatedAt,
	}
}

func FromBookingDetail(rm *queries.BookingDetail) *BookingDetailResponse {
	return &BookingDetailResponse{
		BookingResponse: FromBookingView(&rm.BookingView),
		AssignableUnits: rm.AssignableUnits,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:         rm.ID,
		VillaID:    rm.VillaID,
		VillaName:  rm.VillaName,
		GuestName:  rm.GuestName,
		CheckIn:    rm.CheckIn.Format(time.DateOnly),
		Nights:     rm.Nights,
		TotalCents: rm.TotalCents,
		Status:     rm.Status,
		CreatedAt:  rm.CreatedAt,
	}
}

func FromCreateBookingResult(res *commands.CreateBookingResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:     FromBookingView(res.Booking),
		RedirectURL: res.RedirectURL,
	}
}

func FromConfirmPaymentResult(res *commands.ConfirmPaymentResult) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		Booking: FromBookingView(res.Booking),
		Paid:    res.Paid,
	}
}
