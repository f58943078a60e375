package api

import (
	"errors"
	"net/http"

	reqdto "lagoon-booking/internal/handler/dto/request"
	resdto "lagoon-booking/internal/handler/dto/response"
	"lagoon-booking/internal/handler/httperr"
	"lagoon-booking/internal/pkg/errs"
	"lagoon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary List villa availability
// @Description List every villa with its free unit count for the requested stay
// @Tags villas
// @Produce json
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param nights query int true "Number of nights"
// @Success 200 {array} resdto.VillaAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /villas/availability [get]
func (h *AvailabilityHandler) ListVillas(c *gin.Context) {
	var q reqdto.StayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	checkIn, err := q.ParseCheckIn()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid check-in date", nil)
		return
	}

	items, err := h.q.ListVillas(c.Request.Context(), checkIn, q.Nights)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidStay) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay period", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	out := make([]*resdto.VillaAvailabilityResponse, len(items))
	for i, item := range items {
		out[i] = resdto.FromVillaAvailabilityItem(item)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Quote villa availability
// @Description Free unit count for one villa and candidate stay
// @Tags villas
// @Produce json
// @Param id path string true "Villa ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param nights query int true "Number of nights"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /villas/{id}/availability [get]
func (h *AvailabilityHandler) Quote(c *gin.Context) {
	villaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid villa ID format", nil)
		return
	}

	var q reqdto.StayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	checkIn, err := q.ParseCheckIn()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid check-in date", nil)
		return
	}

	view, err := h.q.Quote(c.Request.Context(), villaID, checkIn, q.Nights)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrVillaNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Villa not found", nil)
		case errors.Is(err, errs.ErrInvalidStay):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay period", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
