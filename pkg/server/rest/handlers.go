package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/DivinerX/fuelrouterx/pkg/geocoder"
	"github.com/DivinerX/fuelrouterx/pkg/server"
	"github.com/DivinerX/fuelrouterx/pkg/server/rest/service"
	"github.com/DivinerX/fuelrouterx/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type TripService interface {
	PlanTrip(ctx context.Context, req service.PlanRequest) (*service.TripPlan, error)
	OptimizeRoute(ctx context.Context, startLocation, endLocation string, maxDistanceKm float64) (*service.TripPlan, error)
	Autocomplete(ctx context.Context, query string) ([]geocoder.Result, error)
	NearbyStations(ctx context.Context, lat, lon float64, k int) ([]datastructure.FuelStation, error)
}

type TripHandler struct {
	svc TripService
}

func TripRouter(r *chi.Mux, svc TripService) {
	handler := &TripHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/route", func(r chi.Router) {
			r.Post("/", handler.PlanRoute)
			r.Post("/optimize", handler.OptimizeRoute)
			r.Get("/autocomplete", handler.Autocomplete)
		})
		r.Route("/api/stations", func(r chi.Router) {
			r.Get("/nearest", handler.NearestStations)
		})
	})
}

// RoutePlanRequest model info
//
//	@Description	request body for planning a route with optimal fuel stops
type RoutePlanRequest struct {
	StartLocation      string   `json:"start_location" validate:"required"`
	EndLocation        string   `json:"end_location" validate:"required"`
	MaxDistanceKm      float64  `json:"max_distance_km" validate:"omitempty,gt=0"`
	Algorithm          string   `json:"algorithm" validate:"omitempty,oneof=greedy dijkstra"`
	// the upper bound is the configured tank capacity, checked by the
	// service so it tracks the -tank flag
	InitialFuelGallons *float64 `json:"initial_fuel_gallons" validate:"omitempty,gte=0"`
}

func (s *RoutePlanRequest) Bind(r *http.Request) error {
	if s.StartLocation == "" || s.EndLocation == "" {
		return errors.New("invalid request")
	}
	if s.MaxDistanceKm == 0 {
		s.MaxDistanceKm = 5.0
	}
	if s.Algorithm == "" {
		s.Algorithm = "greedy"
	}
	return nil
}

// RouteOptimizeRequest model info
//
//	@Description	request body for fetching an optimized route with nearby fuel stations
type RouteOptimizeRequest struct {
	StartLocation string  `json:"start_location" validate:"required"`
	EndLocation   string  `json:"end_location" validate:"required"`
	MaxDistanceKm float64 `json:"max_distance_km" validate:"omitempty,gt=0"`
}

func (s *RouteOptimizeRequest) Bind(r *http.Request) error {
	if s.StartLocation == "" || s.EndLocation == "" {
		return errors.New("invalid request")
	}
	if s.MaxDistanceKm == 0 {
		s.MaxDistanceKm = 5.0
	}
	return nil
}

type Coord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteResponse struct {
	Geometry             [][]float64 `json:"geometry"`
	OptimizedGeometry    [][]float64 `json:"optimized_geometry"`
	Polyline             string      `json:"polyline"`
	TotalDistanceKm      float64     `json:"total_distance_km"`
	TotalDistanceMiles   float64     `json:"total_distance_miles"`
	TotalDistanceMeters  float64     `json:"total_distance_meters"`
	OriginalPointsCount  int         `json:"original_points_count"`
	OptimizedPointsCount int         `json:"optimized_points_count"`
}

type FuelStopResponse struct {
	ID                      int64   `json:"id"`
	Name                    string  `json:"name"`
	Address                 string  `json:"address"`
	Location                Coord   `json:"location"`
	SnappedLocation         Coord   `json:"snapped_location"`
	PricePerGallon          float64 `json:"price_per_gallon"`
	DistanceAlongRouteKm    float64 `json:"distance_along_route_km"`
	DistanceAlongRouteMiles float64 `json:"distance_along_route_miles"`
	DistanceFromRouteKm     float64 `json:"distance_from_route_km"`
	DistanceFromRouteMiles  float64 `json:"distance_from_route_miles"`
	FuelCapacityAtArrival   float64 `json:"fuel_capacity_at_arrival"`
	FuelPurchasedGallons    float64 `json:"fuel_purchased_gallons"`
	FuelCostAtStop          float64 `json:"fuel_cost_at_stop"`
}

// RoutePlanResponse model info
//
//	@Description	response body with the driving route and fuel purchase schedule
type RoutePlanResponse struct {
	Route              RouteResponse      `json:"route"`
	FuelStops          []FuelStopResponse `json:"fuel_stops"`
	FuelStopsCount     int                `json:"fuel_stops_count"`
	MaxDistanceKm      float64            `json:"max_distance_km"`
	TotalFuelCost      float64            `json:"total_fuel_cost"`
	TotalFuelGallons   float64            `json:"total_fuel_gallons"`
	Estimated          bool               `json:"estimated"`
	StartLocation      string             `json:"start_location"`
	EndLocation        string             `json:"end_location"`
	StartCoords        Coord              `json:"start_coords"`
	EndCoords          Coord              `json:"end_coords"`
	Algorithm          string             `json:"algorithm"`
	InitialFuelGallons float64            `json:"initial_fuel_gallons"`
}

// RouteOptimizeResponse model info
//
//	@Description	response body with the optimized route and nearby fuel stations
type RouteOptimizeResponse struct {
	Route         RouteResponse         `json:"route"`
	FuelStations  []FuelStationResponse `json:"fuel_stations"`
	StationsCount int                   `json:"stations_count"`
	MaxDistanceKm float64               `json:"max_distance_km"`
	StartCoords   Coord                 `json:"start_coords"`
	EndCoords     Coord                 `json:"end_coords"`
}

type FuelStationResponse struct {
	ID                      int64   `json:"id"`
	Name                    string  `json:"name"`
	Address                 string  `json:"address"`
	Location                Coord   `json:"location"`
	SnappedLocation         Coord   `json:"snapped_location"`
	PricePerGallon          float64 `json:"price_per_gallon"`
	DistanceAlongRouteKm    float64 `json:"distance_along_route_km"`
	DistanceAlongRouteMiles float64 `json:"distance_along_route_miles"`
	DistanceFromRouteKm     float64 `json:"distance_from_route_km"`
	DistanceFromRouteMiles  float64 `json:"distance_from_route_miles"`
}

// AutocompleteSuggestion model info
//
//	@Description	one location suggestion
type AutocompleteSuggestion struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func geometryToPairs(points []datastructure.Coordinate) [][]float64 {
	pairs := make([][]float64, 0, len(points))
	for _, p := range points {
		pairs = append(pairs, []float64{p.Lon, p.Lat})
	}
	return pairs
}

func renderRouteResponse(trip *service.TripPlan) RouteResponse {
	return RouteResponse{
		Geometry:             geometryToPairs(trip.OriginalGeometry),
		OptimizedGeometry:    geometryToPairs(trip.OptimizedGeometry),
		Polyline:             datastructure.CreatePolyline(trip.OptimizedGeometry),
		TotalDistanceKm:      util.RoundFloat(trip.TotalDistanceKm, 2),
		TotalDistanceMiles:   util.RoundFloat(trip.TotalDistanceMiles, 2),
		TotalDistanceMeters:  util.RoundFloat(trip.TotalDistanceMeters, 2),
		OriginalPointsCount:  len(trip.OriginalGeometry),
		OptimizedPointsCount: len(trip.OptimizedGeometry),
	}
}

func RenderRoutePlanResponse(trip *service.TripPlan) *RoutePlanResponse {
	stops := make([]FuelStopResponse, 0, len(trip.Plan.Stops))
	for _, stop := range trip.Plan.Stops {
		st := stop.Station
		stops = append(stops, FuelStopResponse{
			ID:                      st.ID,
			Name:                    st.Name,
			Address:                 st.Address,
			Location:                Coord{Latitude: st.Lat, Longitude: st.Lon},
			SnappedLocation:         Coord{Latitude: st.SnappedLat, Longitude: st.SnappedLon},
			PricePerGallon:          util.RoundFloat(st.PricePerGallon, 4),
			DistanceAlongRouteKm:    util.RoundFloat(st.DistanceAlongRouteKm, 2),
			DistanceAlongRouteMiles: util.RoundFloat(st.DistanceAlongRouteKm/geo.KmPerMile, 2),
			DistanceFromRouteKm:     util.RoundFloat(st.DistanceFromRouteKm, 2),
			DistanceFromRouteMiles:  util.RoundFloat(st.DistanceFromRouteKm/geo.KmPerMile, 2),
			FuelCapacityAtArrival:   stop.ArrivalFuelGallons,
			FuelPurchasedGallons:    stop.PurchasedGallons,
			FuelCostAtStop:          stop.CostAtStop,
		})
	}

	return &RoutePlanResponse{
		Route:              renderRouteResponse(trip),
		FuelStops:          stops,
		FuelStopsCount:     len(stops),
		MaxDistanceKm:      trip.MaxDistanceKm,
		TotalFuelCost:      trip.Plan.TotalCost,
		TotalFuelGallons:   trip.Plan.TotalGallonsPurchased,
		Estimated:          trip.Plan.Estimated,
		StartLocation:      trip.StartLocation,
		EndLocation:        trip.EndLocation,
		StartCoords:        Coord{Latitude: trip.StartCoord.Lat, Longitude: trip.StartCoord.Lon},
		EndCoords:          Coord{Latitude: trip.EndCoord.Lat, Longitude: trip.EndCoord.Lon},
		Algorithm:          trip.Algorithm,
		InitialFuelGallons: trip.InitialFuelGallons,
	}
}

func RenderRouteOptimizeResponse(trip *service.TripPlan) *RouteOptimizeResponse {
	stations := make([]FuelStationResponse, 0, len(trip.Stations))
	for _, st := range trip.Stations {
		stations = append(stations, FuelStationResponse{
			ID:                      st.ID,
			Name:                    st.Name,
			Address:                 st.Address,
			Location:                Coord{Latitude: st.Lat, Longitude: st.Lon},
			SnappedLocation:         Coord{Latitude: st.SnappedLat, Longitude: st.SnappedLon},
			PricePerGallon:          util.RoundFloat(st.PricePerGallon, 4),
			DistanceAlongRouteKm:    util.RoundFloat(st.DistanceAlongRouteKm, 2),
			DistanceAlongRouteMiles: util.RoundFloat(st.DistanceAlongRouteKm/geo.KmPerMile, 2),
			DistanceFromRouteKm:     util.RoundFloat(st.DistanceFromRouteKm, 2),
			DistanceFromRouteMiles:  util.RoundFloat(st.DistanceFromRouteKm/geo.KmPerMile, 2),
		})
	}

	return &RouteOptimizeResponse{
		Route:         renderRouteResponse(trip),
		FuelStations:  stations,
		StationsCount: len(stations),
		MaxDistanceKm: trip.MaxDistanceKm,
		StartCoords:   Coord{Latitude: trip.StartCoord.Lat, Longitude: trip.StartCoord.Lon},
		EndCoords:     Coord{Latitude: trip.EndCoord.Lat, Longitude: trip.EndCoord.Lon},
	}
}

// PlanRoute
//
//	@Summary		plan a driving route with cost-optimal fuel stops
//	@Description	geocodes both locations, fetches the driving route, and schedules fuel purchases using the selected algorithm
//	@Tags			routes
//	@Param			body	body	RoutePlanRequest	true	"route planning request body"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/route [post]
//	@Success		200	{object}	RoutePlanResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		422	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TripHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	data := &RoutePlanRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	trip, err := h.svc.PlanTrip(r.Context(), service.PlanRequest{
		StartLocation:      data.StartLocation,
		EndLocation:        data.EndLocation,
		MaxDistanceKm:      data.MaxDistanceKm,
		Algorithm:          data.Algorithm,
		InitialFuelGallons: data.InitialFuelGallons,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRoutePlanResponse(trip))
}

// OptimizeRoute
//
//	@Summary		fetch an optimized route with the fuel stations near it
//	@Description	geocodes both locations, fetches and simplifies the driving route, and lists the stations inside the corridor
//	@Tags			routes
//	@Param			body	body	RouteOptimizeRequest	true	"route optimize request body"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/route/optimize [post]
//	@Success		200	{object}	RouteOptimizeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TripHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	data := &RouteOptimizeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	trip, err := h.svc.OptimizeRoute(r.Context(), data.StartLocation, data.EndLocation, data.MaxDistanceKm)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRouteOptimizeResponse(trip))
}

// Autocomplete
//
//	@Summary		suggest locations for a partial query
//	@Description	returns up to five location suggestions for the query, empty list on short queries or upstream failures
//	@Tags			routes
//	@Param			q	query	string	true	"partial location text"
//	@Produce		application/json
//	@Router			/api/route/autocomplete [get]
//	@Success		200	{array}	AutocompleteSuggestion
func (h *TripHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.svc.Autocomplete(r.Context(), query)
	if err != nil {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, []AutocompleteSuggestion{})
		return
	}

	suggestions := make([]AutocompleteSuggestion, 0, len(results))
	for _, res := range results {
		suggestions = append(suggestions, AutocompleteSuggestion{
			DisplayName: res.DisplayName,
			Latitude:    res.Lat,
			Longitude:   res.Lon,
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, suggestions)
}

// NearbyStationResponse model info
//
//	@Description	one station near the queried point
type NearbyStationResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Location       Coord   `json:"location"`
	PricePerGallon float64 `json:"price_per_gallon"`
	DistanceKm     float64 `json:"distance_km"`
}

// NearestStations
//
//	@Summary		list the fuel stations closest to a point
//	@Description	returns up to k catalog stations nearest to (lat, lon), ordered by distance
//	@Tags			stations
//	@Param			lat	query	number	true	"latitude"
//	@Param			lon	query	number	true	"longitude"
//	@Param			k	query	integer	false	"number of stations, default 5"
//	@Produce		application/json
//	@Router			/api/stations/nearest [get]
//	@Success		200	{array}		NearbyStationResponse
//	@Failure		400	{object}	ErrResponse
func (h *TripHandler) NearestStations(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("lat and lon query parameters are required")))
		return
	}
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))

	stations, err := h.svc.NearbyStations(r.Context(), lat, lon, k)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	out := make([]NearbyStationResponse, 0, len(stations))
	for _, st := range stations {
		out = append(out, NearbyStationResponse{
			ID:             st.ID,
			Name:           st.Name,
			Address:        st.Address,
			Location:       Coord{Latitude: st.Lat, Longitude: st.Lon},
			PricePerGallon: util.RoundFloat(st.PricePerGallon, 4),
			DistanceKm: util.RoundFloat(
				geo.CalculateHaversineDistance(lat, lon, st.Lat, st.Lon), 2),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, out)
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *server.Error
	if !errors.As(err, &svcErr) {
		render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
		return
	}

	switch svcErr.Code() {
	case server.ErrBadParamInput:
		render.Render(w, r, ErrInvalidRequest(svcErr))
	case server.ErrNotFound:
		render.Render(w, r, ErrNotFoundRend(svcErr))
	case server.ErrRouteUnreachable:
		render.Render(w, r, ErrUnprocessable(svcErr))
	default:
		render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
//
//	@Description	error response model
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrNotFoundRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 404,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrUnprocessable(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 422,
		StatusText:     "Route unreachable.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
