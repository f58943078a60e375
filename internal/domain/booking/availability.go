package booking

import "github.com/google/uuid"

// CommittedStay is the minimal projection of another booking needed by the
// availability and assignment calculations.
type CommittedStay struct {
	VillaID    uuid.UUID
	Stay       StayPeriod
	Status     Status
	UnitNumber *int
}

// AvailableUnitCount returns how many physical units of the villa are free
// for the candidate stay. A unit is consumed by every Approved or CheckedIn
// booking of the same villa whose half-open date range overlaps the
// candidate. The result is max(0, totalUnits - k) where k is the overlap
// count.
//
// This is a conservative upper bound: it does not bin-pack bookings onto
// specific units, so it can under-count when committed stays could reuse a
// freed unit within the candidate range. It never over-counts, which is the
// invariant that matters at quote and commit time.
func AvailableUnitCount(villaID uuid.UUID, totalUnits int, candidate StayPeriod, committed []CommittedStay) int {
	overlapping := 0
	for _, c := range committed {
		if c.VillaID != villaID {
			continue
		}
		if !c.Status.ConsumesInventory() {
			continue
		}
		if c.Stay.Overlaps(candidate) {
			overlapping++
		}
	}

	available := totalUnits - overlapping
	if available < 0 {
		return 0
	}
	return available
}

// AssignableUnits returns the unit numbers of the villa not currently held
// by a CheckedIn booking. The set is evaluated lazily at the moment staff
// view or check in a booking; nothing is reserved in advance, so the same
// unit may be offered to several approved bookings until one actually
// checks in.
func AssignableUnits(villaID uuid.UUID, unitNumbers []int, checkedIn []CommittedStay) []int {
	occupied := make(map[int]struct{}, len(checkedIn))
	for _, c := range checkedIn {
		if c.VillaID != villaID || c.Status != StatusCheckedIn || c.UnitNumber == nil {
			continue
		}
		occupied[*c.UnitNumber] = struct{}{}
	}

	assignable := make([]int, 0, len(unitNumbers))
	for _, n := range unitNumbers {
		if _, taken := occupied[n]; !taken {
			assignable = append(assignable, n)
		}
	}
	return assignable
}

// IsAssignable reports whether the given unit number is in the assignable
// set. Check-in must reject any unit outside it.
func IsAssignable(villaID uuid.UUID, unitNumber int, unitNumbers []int, checkedIn []CommittedStay) bool {
	for _, n := range AssignableUnits(villaID, unitNumbers, checkedIn) {
		if n == unitNumber {
			return true
		}
	}
	return false
}
