package villa

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidName = errors.New("villa name cannot be empty")
	ErrInvalidRate = errors.New("nightly rate cannot be negative")
)

// Villa is a read-only snapshot of a catalog entry. The catalog itself is
// owned by a separate management system; booking operations never mutate it.
type Villa struct {
	id               uuid.UUID
	name             string
	nightlyRateCents int64
	occupancy        int
}

func NewVilla(id uuid.UUID, name string, nightlyRateCents int64, occupancy int) (*Villa, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if nightlyRateCents < 0 {
		return nil, ErrInvalidRate
	}
	return &Villa{
		id:               id,
		name:             name,
		nightlyRateCents: nightlyRateCents,
		occupancy:        occupancy,
	}, nil
}

func (v *Villa) ID() uuid.UUID           { return v.id }
func (v *Villa) Name() string            { return v.name }
func (v *Villa) NightlyRateCents() int64 { return v.nightlyRateCents }
func (v *Villa) Occupancy() int          { return v.occupancy }

// Unit is one physical, uniquely numbered instance of a villa. Units are
// static inventory; they are referenced by bookings but never created or
// destroyed here.
type Unit struct {
	villaID uuid.UUID
	number  int
}

func NewUnit(villaID uuid.UUID, number int) Unit {
	return Unit{villaID: villaID, number: number}
}

func (u Unit) VillaID() uuid.UUID { return u.villaID }
func (u Unit) Number() int        { return u.number }
