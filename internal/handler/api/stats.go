package api

import (
	"net/http"

	resdto "lagoon-booking/internal/handler/dto/response"
	"lagoon-booking/internal/handler/httperr"
	"lagoon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	q queries.StatsQueries
}

func NewStatsHandler(q queries.StatsQueries) *StatsHandler {
	return &StatsHandler{q: q}
}

// @Summary Booking totals
// @Description Booking counts for the current and previous calendar month plus all-time revenue
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingTotalsResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /stats/bookings [get]
func (h *StatsHandler) BookingTotals(c *gin.Context) {
	view, err := h.q.BookingTotals(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingTotalsView(view))
}
