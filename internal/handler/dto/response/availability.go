package response

import (
	"time"

	"lagoon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	VillaID          uuid.UUID `json:"villaId"`
	VillaName        string    `json:"villaName"`
	NightlyRateCents int64     `json:"nightlyRateCents"`
	CheckIn          string    `json:"checkIn"`
	Nights           int       `json:"nights"`
	TotalUnits       int       `json:"totalUnits"`
	AvailableUnits   int       `json:"availableUnits"`
}

type VillaAvailabilityResponse struct {
	VillaID          uuid.UUID `json:"villaId"`
	VillaName        string    `json:"villaName"`
	NightlyRateCents int64     `json:"nightlyRateCents"`
	Occupancy        int       `json:"occupancy"`
	AvailableUnits   int       `json:"availableUnits"`
	IsAvailable      bool      `json:"isAvailable"`
}

func FromAvailabilityView(rm *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		VillaID:          rm.VillaID,
		VillaName:        rm.VillaName,
		NightlyRateCents: rm.NightlyRateCents,
		CheckIn:          rm.CheckIn.Format(time.DateOnly),
		Nights:           rm.Nights,
		TotalUnits:       rm.TotalUnits,
		AvailableUnits:   rm.AvailableUnits,
	}
}

func FromVillaAvailabilityItem(rm *queries.VillaAvailabilityItem) *VillaAvailabilityResponse {
	return &VillaAvailabilityResponse{
		VillaID:          rm.VillaID,
		VillaName:        rm.VillaName,
		NightlyRateCents: rm.NightlyRateCents,
		Occupancy:        rm.Occupancy,
		AvailableUnits:   rm.AvailableUnits,
		IsAvailable:      rm.IsAvailable,
	}
}
