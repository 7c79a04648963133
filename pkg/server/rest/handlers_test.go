package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geocoder"
	"github.com/DivinerX/fuelrouterx/pkg/server"
	"github.com/DivinerX/fuelrouterx/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTripService struct {
	plan     *service.TripPlan
	planErr  error
	results  []geocoder.Result
	queryErr error

	lastRequest service.PlanRequest
}

func (s *stubTripService) PlanTrip(ctx context.Context, req service.PlanRequest) (*service.TripPlan, error) {
	s.lastRequest = req
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan, nil
}

func (s *stubTripService) OptimizeRoute(ctx context.Context, startLocation, endLocation string, maxDistanceKm float64) (*service.TripPlan, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan, nil
}

func (s *stubTripService) Autocomplete(ctx context.Context, query string) ([]geocoder.Result, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.results, nil
}

func (s *stubTripService) NearbyStations(ctx context.Context, lat, lon float64, k int) ([]datastructure.FuelStation, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	if s.plan == nil {
		return []datastructure.FuelStation{}, nil
	}
	return s.plan.Stations, nil
}

func testTripPlan() *service.TripPlan {
	geometry := []datastructure.Coordinate{
		datastructure.NewCoordinate(34.0522, -118.2437),
		datastructure.NewCoordinate(35.0, -116.0),
		datastructure.NewCoordinate(36.1699, -115.1398),
	}
	station := datastructure.FuelStation{
		ID:                   42,
		Name:                 "Barstow Travel Center",
		Address:              "2930 Lenwood Rd, Barstow, CA",
		Lat:                  34.8587,
		Lon:                  -117.0853,
		PricePerGallon:       3.099,
		DistanceAlongRouteKm: 180.5,
		DistanceFromRouteKm:  1.2,
		SnappedLat:           34.8690,
		SnappedLon:           -117.0841,
	}
	return &service.TripPlan{
		StartLocation:       "Los Angeles, CA",
		EndLocation:         "Las Vegas, NV",
		StartCoord:          geometry[0],
		EndCoord:            geometry[2],
		OriginalGeometry:    geometry,
		OptimizedGeometry:   geometry,
		TotalDistanceMeters: 435000,
		TotalDistanceKm:     435,
		TotalDistanceMiles:  270.3,
		Stations:            []datastructure.FuelStation{station},
		Plan: datastructure.FuelPlan{
			Stops: []datastructure.FuelStop{
				{
					Station:            station,
					ArrivalFuelGallons: 4.2,
					PurchasedGallons:   22.9,
					CostAtStop:         70.97,
				},
			},
			TotalCost:             70.97,
			TotalGallonsPurchased: 22.9,
		},
		Algorithm:          "greedy",
		InitialFuelGallons: 15,
		MaxDistanceKm:      5.0,
	}
}

func newTestRouter(svc TripService) *chi.Mux {
	r := chi.NewRouter()
	TripRouter(r, svc)
	return r
}

func TestPlanRouteOK(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	body := `{"start_location":"Los Angeles, CA","end_location":"Las Vegas, NV","algorithm":"greedy","initial_fuel_gallons":15}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RoutePlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.FuelStopsCount)
	assert.Equal(t, 70.97, resp.TotalFuelCost)
	assert.Equal(t, 22.9, resp.TotalFuelGallons)
	assert.False(t, resp.Estimated)
	assert.Equal(t, "greedy", resp.Algorithm)
	assert.Equal(t, 435.0, resp.Route.TotalDistanceKm)
	assert.Equal(t, 3, resp.Route.OriginalPointsCount)
	assert.NotEmpty(t, resp.Route.Polyline)

	require.Len(t, resp.FuelStops, 1)
	stop := resp.FuelStops[0]
	assert.Equal(t, int64(42), stop.ID)
	assert.Equal(t, 3.099, stop.PricePerGallon)
	assert.Equal(t, 34.8587, stop.Location.Latitude)
	assert.Equal(t, 34.8690, stop.SnappedLocation.Latitude)
	assert.Equal(t, -117.0841, stop.SnappedLocation.Longitude)
	assert.Equal(t, 112.16, stop.DistanceAlongRouteMiles)

	// defaults applied by Bind
	assert.Equal(t, 5.0, svc.lastRequest.MaxDistanceKm)
}

func TestPlanRouteMissingLocation(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	body := `{"start_location":"Los Angeles, CA"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanRouteInvalidAlgorithm(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	body := `{"start_location":"a","end_location":"b","algorithm":"simulated-annealing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["validation"])
}

func TestPlanRouteNegativeInitialFuel(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	body := `{"start_location":"a","end_location":"b","initial_fuel_gallons":-5}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanRouteUnreachable(t *testing.T) {
	svc := &stubTripService{
		planErr: server.NewErrorf(server.ErrRouteUnreachable, "no combination of fuel stops can cover the route"),
	}
	router := newTestRouter(svc)

	body := `{"start_location":"a","end_location":"b"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlanRouteBadParam(t *testing.T) {
	svc := &stubTripService{
		planErr: server.NewErrorf(server.ErrBadParamInput, "could not geocode location: atlantis"),
	}
	router := newTestRouter(svc)

	body := `{"start_location":"atlantis","end_location":"b"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanRouteInternalError(t *testing.T) {
	svc := &stubTripService{
		planErr: server.NewErrorf(server.ErrInternalServerError, "could not get route from routing service"),
	}
	router := newTestRouter(svc)

	body := `{"start_location":"a","end_location":"b"}`
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// internal detail must not leak
	assert.Equal(t, "internal server error", resp["error"])
}

func TestOptimizeRouteOK(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	body := `{"start_location":"Los Angeles, CA","end_location":"Las Vegas, NV","max_distance_km":8}`
	req := httptest.NewRequest(http.MethodPost, "/api/route/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RouteOptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.StationsCount)
	require.Len(t, resp.FuelStations, 1)
	assert.Equal(t, "Barstow Travel Center", resp.FuelStations[0].Name)
	assert.Equal(t, 1.2, resp.FuelStations[0].DistanceFromRouteKm)
}

func TestNearestStationsOK(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stations/nearest?lat=34.8&lon=-117.1&k=3", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []NearbyStationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(42), resp[0].ID)
	assert.Greater(t, resp[0].DistanceKm, 0.0)
}

func TestNearestStationsMissingCoords(t *testing.T) {
	svc := &stubTripService{plan: testTripPlan()}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stations/nearest?lat=34.8", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutocompleteOK(t *testing.T) {
	svc := &stubTripService{
		results: []geocoder.Result{
			{DisplayName: "Los Angeles, California, United States", Lat: 34.0522, Lon: -118.2437},
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/route/autocomplete?q=los+angeles", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []AutocompleteSuggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 34.0522, resp[0].Latitude)
}

func TestAutocompleteUpstreamFailureReturnsEmptyList(t *testing.T) {
	svc := &stubTripService{queryErr: assert.AnError}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/route/autocomplete?q=los", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
