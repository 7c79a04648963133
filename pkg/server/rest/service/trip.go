package service

import (
	"context"
	"errors"
	"log"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/fuel"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/DivinerX/fuelrouterx/pkg/geocoder"
	"github.com/DivinerX/fuelrouterx/pkg/routing"
	"github.com/DivinerX/fuelrouterx/pkg/server"
	"github.com/DivinerX/fuelrouterx/pkg/util"
)

const (
	// routes longer than this many vertices get simplified before the
	// per-segment station filter runs
	DefaultMaxRoutePoints = 300

	DefaultAutocompleteLimit = 5

	DefaultNearbyLimit = 5
	maxNearbyLimit     = 50
)

type Geocoder interface {
	Geocode(ctx context.Context, query string) (geocoder.Result, error)
	Search(ctx context.Context, query string, limit int) ([]geocoder.Result, error)
}

type Router interface {
	Directions(ctx context.Context, start, end datastructure.Coordinate) (*routing.Route, error)
}

type StationCatalog interface {
	InBoundingBox(b geo.BoundingBox) []datastructure.FuelStation
	Nearest(lat, lon float64, k int) []datastructure.FuelStation
	AveragePriceGallon() float64
}

// PlanRequest carries the validated inputs of a trip planning call.
// InitialFuelGallons nil means a full tank.
type PlanRequest struct {
	StartLocation      string
	EndLocation        string
	MaxDistanceKm      float64
	Algorithm          string
	InitialFuelGallons *float64
}

// TripPlan is the assembled outcome: the driving route, the candidate
// stations inside the corridor, and the fuel purchase schedule.
type TripPlan struct {
	StartLocation string
	EndLocation   string
	StartCoord    datastructure.Coordinate
	EndCoord      datastructure.Coordinate

	OriginalGeometry  []datastructure.Coordinate
	OptimizedGeometry []datastructure.Coordinate

	TotalDistanceMeters float64
	TotalDistanceKm     float64
	TotalDistanceMiles  float64

	Stations []datastructure.FuelStation
	Plan     datastructure.FuelPlan

	Algorithm          string
	InitialFuelGallons float64
	MaxDistanceKm      float64

	// average price over the bbox-prefiltered stations, feeds the
	// no-candidates trip cost estimate
	bboxAvgPriceGallon float64
}

type TripService struct {
	geocoder       Geocoder
	router         Router
	catalog        StationCatalog
	planner        *fuel.Planner
	maxRoutePoints int
}

func NewTripService(g Geocoder, r Router, c StationCatalog, p *fuel.Planner) *TripService {
	return &TripService{
		geocoder:       g,
		router:         r,
		catalog:        c,
		planner:        p,
		maxRoutePoints: DefaultMaxRoutePoints,
	}
}

// PlanTrip geocodes both endpoints, fetches and simplifies the driving
// route, filters the station catalog down to the route corridor, and runs
// the requested planning algorithm.
//
// With no usable station in the corridor the outcome degrades instead of
// failing: a trip within initial range gets an empty schedule, anything
// longer gets a trip cost estimate at the average price of the stations the
// bounding box query returned (catalog average when that query is empty).
func (s *TripService) PlanTrip(ctx context.Context, req PlanRequest) (*TripPlan, error) {
	initialFuel := s.planner.CapacityGallons()
	if req.InitialFuelGallons != nil {
		initialFuel = *req.InitialFuelGallons
	}
	if initialFuel < 0 || initialFuel > s.planner.CapacityGallons() {
		return nil, server.NewErrorf(server.ErrBadParamInput,
			"initial fuel %.2f gallons outside tank capacity [0, %.2f]",
			initialFuel, s.planner.CapacityGallons())
	}

	trip, err := s.buildRoute(ctx, req.StartLocation, req.EndLocation, req.MaxDistanceKm)
	if err != nil {
		return nil, err
	}
	trip.Algorithm = req.Algorithm
	trip.InitialFuelGallons = initialFuel

	if len(trip.Stations) == 0 {
		log.Printf("no stations within %.1f km of route", req.MaxDistanceKm)
		rangeMiles := initialFuel * s.planner.MilesPerGallon()
		if trip.TotalDistanceMiles <= rangeMiles {
			trip.Plan = s.planner.BuildPlan([]datastructure.FuelStop{})
		} else {
			trip.Plan = s.planner.EstimatePlan(trip.TotalDistanceMiles, trip.bboxAvgPriceGallon)
		}
		return trip, nil
	}

	stops, err := s.planner.FindOptimalStops(trip.OptimizedGeometry, trip.Stations,
		trip.TotalDistanceMiles, initialFuel, req.Algorithm)
	if err != nil {
		switch {
		case errors.Is(err, fuel.ErrInvalidRequest):
			return nil, server.WrapErrorf(err, server.ErrBadParamInput, "invalid request")
		case errors.Is(err, fuel.ErrRouteUnreachable):
			return nil, server.WrapErrorf(err, server.ErrRouteUnreachable,
				"route cannot be completed with the available fuel stations")
		default:
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}

	trip.Plan = s.planner.BuildPlan(stops)
	return trip, nil
}

// OptimizeRoute returns the simplified route and the corridor stations
// without running a planner, for map display.
func (s *TripService) OptimizeRoute(ctx context.Context, startLocation, endLocation string,
	maxDistanceKm float64) (*TripPlan, error) {
	return s.buildRoute(ctx, startLocation, endLocation, maxDistanceKm)
}

// Autocomplete suggests locations for a partial query. Failures degrade to
// an empty suggestion list, the endpoint is advisory.
func (s *TripService) Autocomplete(ctx context.Context, query string) ([]geocoder.Result, error) {
	if len(query) < 2 {
		return []geocoder.Result{}, nil
	}
	results, err := s.geocoder.Search(ctx, query, DefaultAutocompleteLimit)
	if err != nil {
		log.Printf("autocomplete: geocoding error: %v", err)
		return []geocoder.Result{}, nil
	}
	return results, nil
}

// NearbyStations returns the k catalog stations closest to the point.
func (s *TripService) NearbyStations(ctx context.Context, lat, lon float64, k int) ([]datastructure.FuelStation, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, server.NewErrorf(server.ErrBadParamInput,
			"coordinates out of range (%.6f, %.6f)", lat, lon)
	}
	if k <= 0 || k > maxNearbyLimit {
		k = DefaultNearbyLimit
	}
	return s.catalog.Nearest(lat, lon, k), nil
}

func (s *TripService) buildRoute(ctx context.Context, startLocation, endLocation string,
	maxDistanceKm float64) (*TripPlan, error) {

	if maxDistanceKm <= 0 {
		maxDistanceKm = fuel.DefaultMaxDistanceKm
	}

	startGeo, err := s.geocoder.Geocode(ctx, startLocation)
	if err != nil {
		return nil, geocodeError(err, startLocation)
	}
	endGeo, err := s.geocoder.Geocode(ctx, endLocation)
	if err != nil {
		return nil, geocodeError(err, endLocation)
	}

	start := datastructure.NewCoordinate(startGeo.Lat, startGeo.Lon)
	end := datastructure.NewCoordinate(endGeo.Lat, endGeo.Lon)

	route, err := s.router.Directions(ctx, start, end)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError,
			"could not get route from routing service")
	}

	optimized := route.Geometry
	if len(route.Geometry) > s.maxRoutePoints {
		optimized = geo.SimplifyRouteGeometry(route.Geometry, s.maxRoutePoints)
		log.Printf("simplified route geometry from %d to %d points",
			len(route.Geometry), len(optimized))
	}

	totalKm := route.DistanceMeters / 1000
	totalMiles := totalKm / geo.KmPerMile

	shape := fuel.NewRouteShape(optimized)
	candidates := s.catalog.InBoundingBox(
		geo.ComputeBoundingBox(optimized).ExpandByKm(maxDistanceKm))

	bboxAvgPrice := s.catalog.AveragePriceGallon()
	if len(candidates) > 0 {
		sum := 0.0
		for _, c := range candidates {
			sum += c.PricePerGallon
		}
		bboxAvgPrice = sum / float64(len(candidates))
	}

	stations := shape.FilterStations(candidates, maxDistanceKm)
	stations = util.QuickSortG(stations, func(a, b datastructure.FuelStation) int {
		if a.DistanceAlongRouteKm < b.DistanceAlongRouteKm {
			return -1
		} else if a.DistanceAlongRouteKm > b.DistanceAlongRouteKm {
			return 1
		}
		// id tiebreak keeps the order stable across calls
		if a.ID < b.ID {
			return -1
		} else if a.ID > b.ID {
			return 1
		}
		return 0
	})

	return &TripPlan{
		StartLocation:       startLocation,
		EndLocation:         endLocation,
		StartCoord:          start,
		EndCoord:            end,
		OriginalGeometry:    route.Geometry,
		OptimizedGeometry:   optimized,
		TotalDistanceMeters: route.DistanceMeters,
		TotalDistanceKm:     totalKm,
		TotalDistanceMiles:  totalMiles,
		Stations:            stations,
		MaxDistanceKm:       maxDistanceKm,
		bboxAvgPriceGallon:  bboxAvgPrice,
	}, nil
}

func geocodeError(err error, location string) error {
	if errors.Is(err, geocoder.ErrNoResults) {
		return server.WrapErrorf(err, server.ErrBadParamInput,
			"could not geocode location: %s", location)
	}
	return server.WrapErrorf(err, server.ErrInternalServerError, "geocoding error")
}
