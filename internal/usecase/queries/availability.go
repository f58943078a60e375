package queries

import (
	"context"
	"time"

	"lagoon-booking/internal/domain/booking"
	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type VillaView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	Occupancy        int       `json:"occupancy"`
	TotalUnits       int       `json:"total_units"`
}

type AvailabilityView struct {
	VillaID          uuid.UUID `json:"villa_id"`
	VillaName        string    `json:"villa_name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	CheckIn          time.Time `json:"check_in"`
	Nights           int       `json:"nights"`
	TotalUnits       int       `json:"total_units"`
	AvailableUnits   int       `json:"available_units"`
}

type VillaAvailabilityItem struct {
	VillaID          uuid.UUID `json:"villa_id"`
	VillaName        string    `json:"villa_name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	Occupancy        int       `json:"occupancy"`
	AvailableUnits   int       `json:"available_units"`
	IsAvailable      bool      `json:"is_available"`
}

type VillaReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VillaView, error)
	ListAll(ctx context.Context) ([]*VillaView, error)
	UnitNumbers(ctx context.Context, villaID uuid.UUID) ([]int, error)
	CommittedStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error)
	CheckedInStays(ctx context.Context, villaID uuid.UUID) ([]booking.CommittedStay, error)
}

type AvailabilityQueries interface {
	// Quote computes the free unit count for one villa and candidate stay.
	// The result is advisory; the authoritative re-check happens inside the
	// booking-creation transaction.
	Quote(ctx context.Context, villaID uuid.UUID, checkIn time.Time, nights int) (*AvailabilityView, error)
	// ListVillas returns every villa with its availability for the stay.
	ListVillas(ctx context.Context, checkIn time.Time, nights int) ([]*VillaAvailabilityItem, error)
}

type availabilityQueriesImpl struct {
	villas VillaReadStore
}

func NewAvailabilityQueries(villas VillaReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{villas: villas}
}

func (q *availabilityQueriesImpl) Quote(ctx context.Context, villaID uuid.UUID, checkIn time.Time, nights int) (*AvailabilityView, error) {
	candidate, err := booking.NewStayPeriod(checkIn, nights)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStay)
	}

	v, err := q.villas.FindByID(ctx, villaID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVillaNotFound)
		}
		return nil, err
	}

	committed, err := q.villas.CommittedStays(ctx, villaID)
	if err != nil {
		return nil, err
	}

	return &AvailabilityView{
		VillaID:          v.ID,
		VillaName:        v.Name,
		NightlyRateCents: v.NightlyRateCents,
		CheckIn:          candidate.CheckIn(),
		Nights:           candidate.Nights(),
		TotalUnits:       v.TotalUnits,
		AvailableUnits:   booking.AvailableUnitCount(villaID, v.TotalUnits, candidate, committed),
	}, nil
}

func (q *availabilityQueriesImpl) ListVillas(ctx context.Context, checkIn time.Time, nights int) ([]*VillaAvailabilityItem, error) {
	candidate, err := booking.NewStayPeriod(checkIn, nights)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStay)
	}

	villas, err := q.villas.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*VillaAvailabilityItem, 0, len(villas))
	for _, v := range villas {
		committed, err := q.villas.CommittedStays(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		free := booking.AvailableUnitCount(v.ID, v.TotalUnits, candidate, committed)
		items = append(items, &VillaAvailabilityItem{
			VillaID:          v.ID,
			VillaName:        v.Name,
			NightlyRateCents: v.NightlyRateCents,
			Occupancy:        v.Occupancy,
			AvailableUnits:   free,
			IsAvailable:      free > 0,
		})
	}
	return items, nil
}
