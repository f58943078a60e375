package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/domain/villa"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/pkg/clock"
	"lagoon-booking/internal/pkg/config"
	"lagoon-booking/internal/pkg/errs"
	"lagoon-booking/internal/pkg/metrics"
	"lagoon-booking/internal/usecase/queries"
	"lagoon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingResult struct {
	Booking     *queries.BookingView
	RedirectURL string
}

type ConfirmPaymentResult struct {
	Booking *queries.BookingView
	// Paid reports whether the provider settled the session. A false value
	// is not an error: the booking simply stays pending.
	Paid bool
	// Replayed marks a duplicate confirmation of an already-approved booking.
	Replayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResult, error)
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*ConfirmPaymentResult, error)
	CheckIn(ctx context.Context, bookingID uuid.UUID, unitNumber int) error
	CheckOut(ctx context.Context, bookingID uuid.UUID) error
	Cancel(ctx context.Context, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  PaymentGateway
	bookings queries.BookingQueries
	clock    clock.Clock
	metrics  *metrics.Metrics
	payment  config.PaymentConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	bookings queries.BookingQueries,
	clk clock.Clock,
	m *metrics.Metrics,
	payment config.PaymentConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		bookings: bookings,
		clock:    clk,
		metrics:  m,
		payment:  payment,
	}
}

// CreateBooking commits a Pending booking and then opens a checkout session.
// The availability check and the insert run in one transaction under the
// villa row lock, so two concurrent requests for the last unit cannot both
// succeed. The provider call stays outside the transaction: if it fails the
// booking remains pending without a session and the caller may retry.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResult, error) {
	guest, err := booking.NewGuest(req.GuestName, req.GuestEmail, req.GuestPhone)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	stay, err := booking.NewStayPeriod(req.CheckIn, req.Nights)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStay)
	}

	var (
		bookingID  uuid.UUID
		villaName  string
		totalCents int64
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().VillaByID(ctx, req.VillaID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrVillaNotFound)
			}
			return err
		}

		// Serializes every check-then-commit for this villa.
		if err := tx.Villas().Lock(ctx, tx.DB(), req.VillaID); err != nil {
			return err
		}

		committed, err := tx.Reads().CommittedStays(ctx, req.VillaID)
		if err != nil {
			return err
		}
		if booking.AvailableUnitCount(req.VillaID, snap.TotalUnits, stay, committed) == 0 {
			c.metrics.SoldOutRejections.Inc()
			return errs.ErrSoldOut
		}

		v, err := villa.NewVilla(snap.ID, snap.Name, snap.NightlyRateCents, snap.Occupancy)
		if err != nil {
			return errs.Wrap(err, "corrupt villa snapshot")
		}
		b, err := booking.NewBooking(c.clock, v, userID, guest, stay)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidStay)
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), b)
		if err != nil {
			return err
		}
		bookingID = id
		villaName = snap.Name
		totalCents = b.TotalCost().Cents()
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.BookingsCreated.Inc()

	session, err := c.gateway.CreateSession(ctx, PaymentLineItem{
		Name:            villaName,
		UnitAmountCents: totalCents,
		Currency:        c.payment.Currency,
		Quantity:        1,
	}, c.successURL(bookingID), c.cancelURL(req.VillaID, stay))
	if err != nil {
		// The pending booking stays behind without a session; confirmation
		// will report the session as missing until a retry attaches one.
		slog.Warn("checkout session creation failed",
			slog.String("booking_id", bookingID.String()),
			slog.String("error", err.Error()),
		)
		return nil, errs.Mark(err, errs.ErrPaymentProvider)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var ref *string
		if session.PaymentIntentID != "" {
			ref = &session.PaymentIntentID
		}
		return tx.Bookings().UpdatePaymentRefs(ctx, tx.DB(), bookingID, session.ID, ref)
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookings.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &CreateBookingResult{Booking: view, RedirectURL: session.URL}, nil
}

// ConfirmPayment asks the provider whether the attached session settled and,
// if so, approves the booking. Re-confirming an already-approved booking is a
// no-op so redirect replays and double-submits are harmless.
func (c *bookingCommandsImpl) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*ConfirmPaymentResult, error) {
	snap, err := c.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}

	if snap.Status != booking.StatusPending {
		view, err := c.bookings.GetByIDSystem(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return &ConfirmPaymentResult{
			Booking:  view,
			Paid:     snap.Status != booking.StatusCancelled,
			Replayed: true,
		}, nil
	}

	if snap.SessionID == nil {
		return nil, errs.ErrPaymentSessionMissing
	}

	status, err := c.gateway.GetSession(ctx, *snap.SessionID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentProvider)
	}
	if status.PaymentStatus != PaymentStatusPaid {
		view, err := c.bookings.GetByIDSystem(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return &ConfirmPaymentResult{Booking: view, Paid: false}, nil
	}

	paymentRef := status.PaymentIntentID
	if paymentRef == "" {
		paymentRef = *snap.SessionID
	}

	approved := false
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cur, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		if cur.Status != booking.StatusPending {
			// A concurrent confirmation won the row lock race.
			return nil
		}

		b, err := cur.ToDomain()
		if err != nil {
			return errs.Wrap(err, "corrupt booking snapshot")
		}
		if err := b.Approve(paymentRef); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusApproved, nil); err != nil {
			return err
		}
		if err := tx.Bookings().UpdatePaymentRefs(ctx, tx.DB(), bookingID, *cur.SessionID, &paymentRef); err != nil {
			return err
		}
		approved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if approved {
		c.metrics.PaymentsConfirmed.Inc()
	}

	view, err := c.bookings.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &ConfirmPaymentResult{Booking: view, Paid: true, Replayed: !approved}, nil
}

// CheckIn binds a physical unit and moves the booking to CheckedIn. The unit
// choice is validated against the currently held units under the villa lock,
// never trusted from the request alone.
func (c *bookingCommandsImpl) CheckIn(ctx context.Context, bookingID uuid.UUID, unitNumber int) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}

		// Villa lock before the booking row lock, matching booking creation,
		// so the two paths cannot deadlock against each other.
		if err := tx.Villas().Lock(ctx, tx.DB(), snap.VillaID); err != nil {
			return err
		}
		cur, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}

		b, err := cur.ToDomain()
		if err != nil {
			return errs.Wrap(err, "corrupt booking snapshot")
		}
		if err := b.CheckIn(unitNumber); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		units, err := tx.Reads().UnitNumbers(ctx, cur.VillaID)
		if err != nil {
			return err
		}
		checkedIn, err := tx.Reads().CheckedInStays(ctx, cur.VillaID)
		if err != nil {
			return err
		}
		if !booking.IsAssignable(cur.VillaID, unitNumber, units, checkedIn) {
			return errs.ErrUnitUnavailable
		}

		return tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusCheckedIn, &unitNumber)
	})
	if err != nil {
		return err
	}
	c.metrics.CheckIns.Inc()
	return nil
}

// CheckOut moves CheckedIn -> Completed. The unit number stays on the record.
func (c *bookingCommandsImpl) CheckOut(ctx context.Context, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cur, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}

		b, err := cur.ToDomain()
		if err != nil {
			return errs.Wrap(err, "corrupt booking snapshot")
		}
		if err := b.Complete(); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		return tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusCompleted, cur.UnitNumber)
	})
}

// Cancel releases the booking from any non-terminal status and clears the
// assigned unit so it returns to the assignable pool immediately.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cur, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}

		b, err := cur.ToDomain()
		if err != nil {
			return errs.Wrap(err, "corrupt booking snapshot")
		}
		if err := b.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		return tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusCancelled, nil)
	})
	if err != nil {
		return err
	}
	c.metrics.Cancellations.Inc()
	return nil
}

func (c *bookingCommandsImpl) successURL(bookingID uuid.UUID) string {
	return fmt.Sprintf("%s?bookingId=%s", c.payment.SuccessURL, bookingID)
}

func (c *bookingCommandsImpl) cancelURL(villaID uuid.UUID, stay booking.StayPeriod) string {
	return fmt.Sprintf("%s?villaId=%s&checkIn=%s&nights=%d",
		c.payment.CancelURL, villaID, stay.CheckIn().Format(time.DateOnly), stay.Nights())
}
