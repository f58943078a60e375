package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentStatusPaid is the provider's terminal success state; everything
// else is treated as still pending.
const PaymentStatusPaid = "paid"

// PaymentLineItem mirrors the provider's checkout line item: amount is in
// minor currency units, currency is the single configured code.
type PaymentLineItem struct {
	Name            string
	UnitAmountCents int64
	Currency        string
	Quantity        int
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
}

type SessionStatus struct {
	PaymentStatus   string
	PaymentIntentID string
}

// PaymentGateway is the narrow contract with the external payment-session
// provider. The provider is the sole source of truth for payment success;
// nothing here infers success from local state.
type PaymentGateway interface {
	CreateSession(ctx context.Context, item PaymentLineItem, successURL, cancelURL string) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

type CreateBookingRequest struct {
	VillaID    uuid.UUID
	CheckIn    time.Time
	Nights     int
	GuestName  string
	GuestEmail string
	GuestPhone string
}
