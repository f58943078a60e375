package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidNights   = errors.New("nights must be at least 1")
	ErrCheckInInPast   = errors.New("check-in date cannot be in the past")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidGuest    = errors.New("guest name and email are required")
	ErrInvalidCheckIn  = errors.New("check-in date is required")
)

// StayPeriod is a half-open date interval: a stay occupies
// [checkIn, checkIn+nights), excluding the checkout date itself.
type StayPeriod struct {
	checkIn time.Time
	nights  int
}

func NewStayPeriod(checkIn time.Time, nights int) (StayPeriod, error) {
	if checkIn.IsZero() {
		return StayPeriod{}, ErrInvalidCheckIn
	}
	if nights < 1 {
		return StayPeriod{}, ErrInvalidNights
	}
	return StayPeriod{checkIn: normalizeDate(checkIn), nights: nights}, nil
}

func (s StayPeriod) CheckIn() time.Time {
	return s.checkIn
}

func (s StayPeriod) Nights() int {
	return s.nights
}

func (s StayPeriod) CheckOut() time.Time {
	return s.checkIn.AddDate(0, 0, s.nights)
}

// Overlaps uses half-open interval overlap: [a, a+nA) and [b, b+nB) overlap
// iff a < b+nB and b < a+nA. A stay checking out on another's check-in date
// does not overlap it.
func (s StayPeriod) Overlaps(other StayPeriod) bool {
	return s.checkIn.Before(other.CheckOut()) && other.checkIn.Before(s.CheckOut())
}

func (s StayPeriod) StartsBefore(t time.Time) bool {
	return s.checkIn.Before(normalizeDate(t))
}

func (s StayPeriod) String() string {
	return fmt.Sprintf("[%s,%s)", s.checkIn.Format(time.DateOnly), s.CheckOut().Format(time.DateOnly))
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Money is an amount in minor currency units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) MultiplyNights(nights int) Money {
	return Money{cents: m.cents * int64(nights)}
}

// Guest is the requesting party's contact snapshot, denormalized onto the
// booking at creation time.
type Guest struct {
	name  string
	email string
	phone string
}

func NewGuest(name, email, phone string) (Guest, error) {
	if name == "" || email == "" {
		return Guest{}, ErrInvalidGuest
	}
	return Guest{name: name, email: email, phone: phone}, nil
}

func (g Guest) Name() string  { return g.name }
func (g Guest) Email() string { return g.email }
func (g Guest) Phone() string { return g.phone }
