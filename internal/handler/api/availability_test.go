//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"lagoon-booking/internal/handler/api"
	resdto "lagoon-booking/internal/handler/dto/response"
	"lagoon-booking/internal/pkg/errs"
	"lagoon-booking/internal/usecase/queries"
	"lagoon-booking/tests/common/httptest"
	queriesmock "lagoon-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockQueries)

	s.router.GET("/villas/availability", s.handler.ListVillas)
	s.router.GET("/villas/:id/availability", s.handler.Quote)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestListVillas() {
	s.Run("success: 200 with per-villa availability", func() {
		items := []*queries.VillaAvailabilityItem{
			{VillaID: uuid.New(), VillaName: "Sea Breeze", AvailableUnits: 2, IsAvailable: true},
			{VillaID: uuid.New(), VillaName: "Palm Grove", AvailableUnits: 0, IsAvailable: false},
		}
		s.mockQueries.EXPECT().
			ListVillas(gomock.Any(), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 3).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/villas/availability?check_in=2026-02-01&nights=3", nil, "")

		var body []resdto.VillaAvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
		s.True(body[0].IsAvailable)
		s.False(body[1].IsAvailable)
	})

	s.Run("error: 400 without query parameters", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/villas/availability", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 with zero nights", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/villas/availability?check_in=2026-02-01&nights=0", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *AvailabilityHandlerTestSuite) TestQuote() {
	villaID := uuid.New()
	url := "/villas/" + villaID.String() + "/availability?check_in=2026-02-01&nights=3"

	s.Run("success: 200 with the free unit count", func() {
		view := &queries.AvailabilityView{
			VillaID:        villaID,
			VillaName:      "Sea Breeze",
			CheckIn:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Nights:         3,
			TotalUnits:     3,
			AvailableUnits: 1,
		}
		s.mockQueries.EXPECT().
			Quote(gomock.Any(), villaID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 3).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(1, body.AvailableUnits)
		s.Equal(3, body.TotalUnits)
	})

	s.Run("error: 404 for unknown villa", func() {
		s.mockQueries.EXPECT().
			Quote(gomock.Any(), villaID, gomock.Any(), 3).
			Return(nil, errs.ErrVillaNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Villa not found")
	})

	s.Run("error: 400 for malformed villa id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/villas/not-a-uuid/availability?check_in=2026-02-01&nights=3", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}
