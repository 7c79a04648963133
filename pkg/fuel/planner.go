package fuel

import (
	"fmt"
	"log"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/DivinerX/fuelrouterx/pkg/util"
)

const (
	DefaultCapacityGallons = 50.0
	DefaultMilesPerGallon  = 10.0

	// discretization unit of the exact planner, 1/50 gallon
	DefaultFuelStepGallons = 0.02

	// greedy final-stop safety margin: max(ReserveMinGallons,
	// ReserveFraction*needed). Arbitrary buffer preserved from the system
	// this planner reimplements, configurable rather than "corrected".
	DefaultReserveMinGallons = 0.1
	DefaultReserveFraction   = 0.05

	AlgorithmGreedy   = "greedy"
	AlgorithmDijkstra = "dijkstra"
)

// Planner computes refueling schedules. It is pure and stateless between
// calls, safe for concurrent use from independent requests.
type Planner struct {
	capacityGallons float64
	milesPerGallon  float64

	fuelStepGallons   float64
	reserveMinGallons float64
	reserveFraction   float64
	denseEdges        bool

	tracer Tracer
}

type Option func(*Planner)

func WithFuelStep(stepGallons float64) Option {
	return func(p *Planner) {
		p.fuelStepGallons = stepGallons
	}
}

func WithReserve(minGallons, fraction float64) Option {
	return func(p *Planner) {
		p.reserveMinGallons = minGallons
		p.reserveFraction = fraction
	}
}

// WithDenseEdges makes the exact planner materialize every reachable
// station pair instead of the pruned O(n) edge set. Slower but carries no
// assumptions about the pruning rule.
func WithDenseEdges() Option {
	return func(p *Planner) {
		p.denseEdges = true
	}
}

func WithTracer(t Tracer) Option {
	return func(p *Planner) {
		p.tracer = t
	}
}

func NewPlanner(capacityGallons, milesPerGallon float64, opts ...Option) (*Planner, error) {
	if capacityGallons <= 0 {
		return nil, fmt.Errorf("%w: tank capacity must be positive", ErrInvalidRequest)
	}
	if milesPerGallon <= 0 {
		return nil, fmt.Errorf("%w: fuel economy must be positive", ErrInvalidRequest)
	}

	p := &Planner{
		capacityGallons:   capacityGallons,
		milesPerGallon:    milesPerGallon,
		fuelStepGallons:   DefaultFuelStepGallons,
		reserveMinGallons: DefaultReserveMinGallons,
		reserveFraction:   DefaultReserveFraction,
		tracer:            NopTracer{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fuelStepGallons <= 0 || p.fuelStepGallons > p.capacityGallons {
		return nil, fmt.Errorf("%w: fuel step must be in (0, capacity]", ErrInvalidRequest)
	}
	return p, nil
}

func (p *Planner) CapacityGallons() float64 {
	return p.capacityGallons
}

func (p *Planner) MilesPerGallon() float64 {
	return p.milesPerGallon
}

func (p *Planner) MaxRangeMiles() float64 {
	return p.capacityGallons * p.milesPerGallon
}

// FindOptimalStops runs the selected algorithm over the filtered,
// distance-annotated station list and returns the stop schedule in
// increasing distance-along-route order.
//
// Stations must already have passed the proximity filter: both derived
// distance fields set, all within the caller's offset threshold. The input
// slice is never mutated.
//
// Degenerate geometry (fewer than 2 points, non-positive total distance)
// yields an empty zero-cost schedule. An unrecognized algorithm falls back
// to greedy with a logged warning.
func (p *Planner) FindOptimalStops(routeGeometry []datastructure.Coordinate,
	stations []datastructure.FuelStation, totalDistanceMiles float64,
	initialFuelGallons float64, algorithm string) ([]datastructure.FuelStop, error) {

	if len(routeGeometry) < 2 || totalDistanceMiles <= 0 {
		return []datastructure.FuelStop{}, nil
	}

	if initialFuelGallons < 0 || initialFuelGallons > p.capacityGallons {
		return nil, fmt.Errorf("%w: initial fuel %.2f outside [0, %.2f]",
			ErrInvalidRequest, initialFuelGallons, p.capacityGallons)
	}

	// planners assume ascending distance-along-route; the quicksort is not
	// stable, so distance ties fall back to the station id to keep the
	// order identical between calls
	sorted := util.QuickSortG(stations, func(a, b datastructure.FuelStation) int {
		if a.DistanceAlongRouteKm < b.DistanceAlongRouteKm {
			return -1
		} else if a.DistanceAlongRouteKm > b.DistanceAlongRouteKm {
			return 1
		}
		if a.ID < b.ID {
			return -1
		} else if a.ID > b.ID {
			return 1
		}
		return 0
	})

	switch algorithm {
	case AlgorithmGreedy:
		return p.greedy(totalDistanceMiles, initialFuelGallons, sorted)
	case AlgorithmDijkstra:
		return p.dijkstra(totalDistanceMiles, initialFuelGallons, sorted)
	default:
		log.Printf("unknown algorithm %q, using greedy", algorithm)
		return p.greedy(totalDistanceMiles, initialFuelGallons, sorted)
	}
}

// BuildPlan sums stop purchases into plan totals.
func (p *Planner) BuildPlan(stops []datastructure.FuelStop) datastructure.FuelPlan {
	plan := datastructure.FuelPlan{Stops: stops}
	for _, stop := range stops {
		plan.TotalCost += stop.CostAtStop
		plan.TotalGallonsPurchased += stop.PurchasedGallons
	}
	plan.TotalCost = util.RoundFloat(plan.TotalCost, 2)
	plan.TotalGallonsPurchased = util.RoundFloat(plan.TotalGallonsPurchased, 2)
	return plan
}

// EstimatePlan is the degraded path for routes with no candidate stations:
// total fuel for the whole trip priced at avgPricePerGallon, explicitly
// marked as an estimate rather than a concrete stop schedule.
func (p *Planner) EstimatePlan(totalDistanceMiles, avgPricePerGallon float64) datastructure.FuelPlan {
	gallonsNeeded := totalDistanceMiles / p.milesPerGallon
	return datastructure.FuelPlan{
		Stops:                 []datastructure.FuelStop{},
		TotalCost:             util.RoundFloat(gallonsNeeded*avgPricePerGallon, 2),
		TotalGallonsPurchased: util.RoundFloat(gallonsNeeded, 2),
		Estimated:             true,
	}
}

func milesFromKm(km float64) float64 {
	return km / geo.KmPerMile
}
