//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/clock"
	"lagoon-booking/internal/pkg/config"
	"lagoon-booking/internal/pkg/errs"
	"lagoon-booking/internal/pkg/metrics"
	"lagoon-booking/internal/usecase/queries"
	"lagoon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promauto registers into the default registry, so the package shares one
// instance across tests.
var testMetrics = metrics.NewMetrics("test")

// ---- in-memory unit of work --------------------------------------------------

type fakeStore struct {
	villas    map[uuid.UUID]*shared.VillaSnapshot
	bookings  map[uuid.UUID]*shared.BookingSnapshot
	units     map[uuid.UUID][]int
	lockCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		villas:   make(map[uuid.UUID]*shared.VillaSnapshot),
		bookings: make(map[uuid.UUID]*shared.BookingSnapshot),
		units:    make(map[uuid.UUID][]int),
	}
}

func (s *fakeStore) VillaByID(_ context.Context, id uuid.UUID) (*shared.VillaSnapshot, error) {
	v, ok := s.villas[id]
	if !ok {
		return nil, infra.WrapRepoErr("villa not found", nil, infra.KindNotFound)
	}
	return v, nil
}

func (s *fakeStore) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) CommittedStays(_ context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return s.staysWhere(villaID, func(b *shared.BookingSnapshot) bool {
		return b.Status.ConsumesInventory()
	})
}

func (s *fakeStore) CheckedInStays(_ context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error) {
	return s.staysWhere(villaID, func(b *shared.BookingSnapshot) bool {
		return b.Status == booking.StatusCheckedIn
	})
}

func (s *fakeStore) UnitNumbers(_ context.Context, villaID uuid.UUID) ([]int, error) {
	return s.units[villaID], nil
}

func (s *fakeStore) staysWhere(villaID uuid.UUID, pred func(*shared.BookingSnapshot) bool) ([]booking.CommittedStay, error) {
	var out []booking.CommittedStay
	for _, b := range s.bookings {
		if b.VillaID != villaID || !pred(b) {
			continue
		}
		stay, err := booking.NewStayPeriod(b.CheckIn, b.Nights)
		if err != nil {
			return nil, err
		}
		out = append(out, booking.CommittedStay{
			VillaID:    b.VillaID,
			Stay:       stay,
			Status:     b.Status,
			UnitNumber: b.UnitNumber,
		})
	}
	return out, nil
}

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	r.store.bookings[b.ID()] = &shared.BookingSnapshot{
		ID:         b.ID(),
		VillaID:    b.VillaID(),
		UserID:     b.UserID(),
		GuestName:  b.Guest().Name(),
		GuestEmail: b.Guest().Email(),
		GuestPhone: b.Guest().Phone(),
		CheckIn:    b.Stay().CheckIn(),
		Nights:     b.Stay().Nights(),
		TotalCents: b.TotalCost().Cents(),
		Status:     b.Status(),
		CreatedAt:  b.CreatedAt(),
		UpdatedAt:  b.UpdatedAt(),
	}
	return b.ID(), nil
}

func (r *fakeBookingRepo) FindForUpdate(ctx context.Context, _ db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.store.BookingByID(ctx, id)
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.Status, unitNumber *int) error {
	b, ok := r.store.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	b.Status = status
	b.UnitNumber = unitNumber
	return nil
}

func (r *fakeBookingRepo) UpdatePaymentRefs(_ context.Context, _ db.DBTX, id uuid.UUID, sessionID string, paymentRef *string) error {
	b, ok := r.store.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	b.SessionID = &sessionID
	b.PaymentRef = paymentRef
	return nil
}

type fakeVillaRepo struct{ store *fakeStore }

func (r *fakeVillaRepo) Lock(_ context.Context, _ db.DBTX, villaID uuid.UUID) error {
	if _, ok := r.store.villas[villaID]; !ok {
		return infra.WrapRepoErr("villa not found", nil, infra.KindNotFound)
	}
	r.store.lockCalls++
	return nil
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookingRepo{store: t.store} }
func (t *fakeTx) Villas() shared.VillaRepository     { return &fakeVillaRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return t.store }
func (t *fakeTx) DB() db.DBTX                        { return nil }

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads { return u.store }

// ---- payment gateway fake ----------------------------------------------------

type fakeGateway struct {
	createErr   error
	session     *CheckoutSession
	status      *SessionStatus
	getErr      error
	createCalls int
	getCalls    int
}

func (g *fakeGateway) CreateSession(_ context.Context, _ PaymentLineItem, _, _ string) (*CheckoutSession, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.session, nil
}

func (g *fakeGateway) GetSession(_ context.Context, _ string) (*SessionStatus, error) {
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.status, nil
}

// ---- system read fake --------------------------------------------------------

type fakeBookingQueries struct{ store *fakeStore }

func (q *fakeBookingQueries) GetByID(context.Context, queries.Actor, uuid.UUID) (*queries.BookingDetail, error) {
	panic("not used by commands")
}

func (q *fakeBookingQueries) List(context.Context, queries.Actor, *string) ([]*queries.BookingListItem, error) {
	panic("not used by commands")
}

func (q *fakeBookingQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.store.bookings[id]
	if !ok {
		return nil, errs.ErrBookingNotFound
	}
	return &queries.BookingView{
		ID:         b.ID,
		VillaID:    b.VillaID,
		UserID:     b.UserID,
		GuestName:  b.GuestName,
		CheckIn:    b.CheckIn,
		Nights:     b.Nights,
		TotalCents: b.TotalCents,
		Status:     b.Status.String(),
		UnitNumber: b.UnitNumber,
		SessionID:  b.SessionID,
		PaymentRef: b.PaymentRef,
	}, nil
}

// ---- fixture -----------------------------------------------------------------

type fixture struct {
	store   *fakeStore
	gateway *fakeGateway
	clock   *clock.MockClock
	cmds    BookingCommands
	villaID uuid.UUID
}

func newFixture(t *testing.T, totalUnits int) *fixture {
	t.Helper()
	store := newFakeStore()
	gateway := &fakeGateway{
		session: &CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1", PaymentIntentID: "pi_1"},
		status:  &SessionStatus{PaymentStatus: PaymentStatusPaid, PaymentIntentID: "pi_1"},
	}
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	villaID := uuid.New()
	store.villas[villaID] = &shared.VillaSnapshot{
		ID:               villaID,
		Name:             "Sea Breeze",
		NightlyRateCents: 20000,
		Occupancy:        4,
		TotalUnits:       totalUnits,
	}
	units := make([]int, 0, totalUnits)
	for i := 1; i <= totalUnits; i++ {
		units = append(units, i)
	}
	store.units[villaID] = units

	cmds := NewBookingCommands(
		&fakeUoW{store: store},
		gateway,
		&fakeBookingQueries{store: store},
		clk,
		testMetrics,
		config.NewTestConfig().Payment,
	)
	return &fixture{store: store, gateway: gateway, clock: clk, cmds: cmds, villaID: villaID}
}

func (f *fixture) seedBooking(t *testing.T, status booking.Status, unitNumber *int, sessionID *string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.bookings[id] = &shared.BookingSnapshot{
		ID:         id,
		VillaID:    f.villaID,
		UserID:     uuid.New(),
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		CheckIn:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Nights:     3,
		TotalCents: 60000,
		Status:     status,
		UnitNumber: unitNumber,
		SessionID:  sessionID,
		CreatedAt:  f.clock.Now(),
		UpdatedAt:  f.clock.Now(),
	}
	return id
}

func createReq(villaID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		VillaID:    villaID,
		CheckIn:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Nights:     3,
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ---- CreateBooking -----------------------------------------------------------

func TestBookingCommands_CreateBooking(t *testing.T) {
	t.Run("creates pending booking with checkout session", func(t *testing.T) {
		f := newFixture(t, 2)

		res, err := f.cmds.CreateBooking(context.Background(), uuid.New(), createReq(f.villaID))

		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending.String(), res.Booking.Status)
		assert.Equal(t, int64(60000), res.Booking.TotalCents)
		assert.Equal(t, "https://pay.example/cs_1", res.RedirectURL)
		require.NotNil(t, res.Booking.SessionID)
		assert.Equal(t, "cs_1", *res.Booking.SessionID)
		assert.Equal(t, 1, f.store.lockCalls)
	})

	t.Run("rejects when every unit is committed for the stay", func(t *testing.T) {
		f := newFixture(t, 1)
		f.seedBooking(t, booking.StatusApproved, nil, nil)

		_, err := f.cmds.CreateBooking(context.Background(), uuid.New(), createReq(f.villaID))

		require.ErrorIs(t, err, errs.ErrSoldOut)
		assert.Zero(t, f.gateway.createCalls)
	})

	t.Run("pending and cancelled stays do not block creation", func(t *testing.T) {
		f := newFixture(t, 1)
		f.seedBooking(t, booking.StatusPending, nil, nil)
		f.seedBooking(t, booking.StatusCancelled, nil, nil)

		_, err := f.cmds.CreateBooking(context.Background(), uuid.New(), createReq(f.villaID))

		require.NoError(t, err)
	})

	t.Run("unknown villa", func(t *testing.T) {
		f := newFixture(t, 2)

		_, err := f.cmds.CreateBooking(context.Background(), uuid.New(), createReq(uuid.New()))

		require.ErrorIs(t, err, errs.ErrVillaNotFound)
	})

	t.Run("past check-in is rejected before touching the store", func(t *testing.T) {
		f := newFixture(t, 2)
		req := createReq(f.villaID)
		req.CheckIn = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

		_, err := f.cmds.CreateBooking(context.Background(), uuid.New(), req)

		require.ErrorIs(t, err, errs.ErrInvalidStay)
		assert.Empty(t, f.store.bookings)
	})

	t.Run("provider failure leaves the booking pending without a session", func(t *testing.T) {
		f := newFixture(t, 2)
		f.gateway.createErr = errs.New("connection refused")

		_, err := f.cmds.CreateBooking(context.Background(), uuid.New(), createReq(f.villaID))

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
		require.Len(t, f.store.bookings, 1)
		for _, b := range f.store.bookings {
			assert.Equal(t, booking.StatusPending, b.Status)
			assert.Nil(t, b.SessionID)
		}
	})
}

// ---- ConfirmPayment ----------------------------------------------------------

func TestBookingCommands_ConfirmPayment(t *testing.T) {
	t.Run("approves a paid pending booking", func(t *testing.T) {
		f := newFixture(t, 2)
		id := f.seedBooking(t, booking.StatusPending, nil, strPtr("cs_1"))

		res, err := f.cmds.ConfirmPayment(context.Background(), id)

		require.NoError(t, err)
		assert.True(t, res.Paid)
		assert.False(t, res.Replayed)
		assert.Equal(t, booking.StatusApproved.String(), res.Booking.Status)
		require.NotNil(t, res.Booking.PaymentRef)
		assert.Equal(t, "pi_1", *res.Booking.PaymentRef)
	})

	t.Run("duplicate confirmation is a no-op", func(t *testing.T) {
		f := newFixture(t, 2)
		id := f.seedBooking(t, booking.StatusPending, nil, strPtr("cs_1"))

		_, err := f.cmds.ConfirmPayment(context.Background(), id)
		require.NoError(t, err)

		res, err := f.cmds.ConfirmPayment(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, res.Paid)
		assert.True(t, res.Replayed)
		assert.Equal(t, booking.StatusApproved.String(), res.Booking.Status)
		// The replay must not hit the provider again.
		assert.Equal(t, 1, f.gateway.getCalls)
	})

	t.Run("unpaid session keeps the booking pending without error", func(t *testing.T) {
		f := newFixture(t, 2)
		f.gateway.status = &SessionStatus{PaymentStatus: "unpaid"}
		id := f.seedBooking(t, booking.StatusPending, nil, strPtr("cs_1"))

		res, err := f.cmds.ConfirmPayment(context.Background(), id)

		require.NoError(t, err)
		assert.False(t, res.Paid)
		assert.Equal(t, booking.StatusPending.String(), res.Booking.Status)
	})

	t.Run("booking without a session", func(t *testing.T) {
		f := newFixture(t, 2)
		id := f.seedBooking(t, booking.StatusPending, nil, nil)

		_, err := f.cmds.ConfirmPayment(context.Background(), id)

		require.ErrorIs(t, err, errs.ErrPaymentSessionMissing)
	})

	t.Run("provider lookup failure", func(t *testing.T) {
		f := newFixture(t, 2)
		f.gateway.getErr = errs.New("timeout")
		id := f.seedBooking(t, booking.StatusPending, nil, strPtr("cs_1"))

		_, err := f.cmds.ConfirmPayment(context.Background(), id)

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
		assert.Equal(t, booking.StatusPending, f.store.bookings[id].Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, 2)

		_, err := f.cmds.ConfirmPayment(context.Background(), uuid.New())

		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

// ---- CheckIn -----------------------------------------------------------------

func TestBookingCommands_CheckIn(t *testing.T) {
	t.Run("assigns a free unit", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusApproved, nil, strPtr("cs_1"))

		err := f.cmds.CheckIn(context.Background(), id, 2)

		require.NoError(t, err)
		b := f.store.bookings[id]
		assert.Equal(t, booking.StatusCheckedIn, b.Status)
		require.NotNil(t, b.UnitNumber)
		assert.Equal(t, 2, *b.UnitNumber)
	})

	t.Run("rejects a unit held by another checked-in booking", func(t *testing.T) {
		f := newFixture(t, 3)
		f.seedBooking(t, booking.StatusCheckedIn, intPtr(2), nil)
		id := f.seedBooking(t, booking.StatusApproved, nil, strPtr("cs_1"))

		err := f.cmds.CheckIn(context.Background(), id, 2)

		require.ErrorIs(t, err, errs.ErrUnitUnavailable)
		b := f.store.bookings[id]
		assert.Equal(t, booking.StatusApproved, b.Status)
		assert.Nil(t, b.UnitNumber)
	})

	t.Run("rejects a unit number outside the villa", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusApproved, nil, strPtr("cs_1"))

		err := f.cmds.CheckIn(context.Background(), id, 99)

		require.ErrorIs(t, err, errs.ErrUnitUnavailable)
	})

	t.Run("pending booking cannot check in", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusPending, nil, nil)

		err := f.cmds.CheckIn(context.Background(), id, 1)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Nil(t, f.store.bookings[id].UnitNumber)
	})
}

// ---- CheckOut / Cancel -------------------------------------------------------

func TestBookingCommands_CheckOut(t *testing.T) {
	t.Run("completes a checked-in booking and keeps the unit", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusCheckedIn, intPtr(1), nil)

		err := f.cmds.CheckOut(context.Background(), id)

		require.NoError(t, err)
		b := f.store.bookings[id]
		assert.Equal(t, booking.StatusCompleted, b.Status)
		require.NotNil(t, b.UnitNumber)
		assert.Equal(t, 1, *b.UnitNumber)
	})

	t.Run("approved booking cannot check out", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusApproved, nil, nil)

		err := f.cmds.CheckOut(context.Background(), id)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	t.Run("cancelling a checked-in booking releases its unit", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusCheckedIn, intPtr(1), nil)

		err := f.cmds.Cancel(context.Background(), id)

		require.NoError(t, err)
		b := f.store.bookings[id]
		assert.Equal(t, booking.StatusCancelled, b.Status)
		assert.Nil(t, b.UnitNumber)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		f := newFixture(t, 3)
		id := f.seedBooking(t, booking.StatusCompleted, intPtr(1), nil)

		err := f.cmds.Cancel(context.Background(), id)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}
