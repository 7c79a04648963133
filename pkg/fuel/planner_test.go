package fuel

import (
	"errors"
	"testing"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/stretchr/testify/assert"
)

// two-point geometry, long enough to be non-degenerate for every scenario
var testGeometry = []datastructure.Coordinate{
	datastructure.NewCoordinate(34.0522, -118.2437),
	datastructure.NewCoordinate(36.1699, -115.1398),
}

func stationAtMiles(id int64, miles, price float64) datastructure.FuelStation {
	return datastructure.FuelStation{
		ID:                   id,
		Name:                 "station",
		Lat:                  35.0,
		Lon:                  -117.0,
		PricePerGallon:       price,
		DistanceAlongRouteKm: miles * geo.KmPerMile,
		DistanceFromRouteKm:  0.5,
	}
}

func newTestPlanner(t *testing.T, opts ...Option) *Planner {
	t.Helper()
	p, err := NewPlanner(DefaultCapacityGallons, DefaultMilesPerGallon, opts...)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return p
}

func TestNewPlannerRejectsBadConfig(t *testing.T) {
	_, err := NewPlanner(0, 10)
	assert.Error(t, err)

	_, err = NewPlanner(50, -1)
	assert.Error(t, err)

	_, err = NewPlanner(50, 10, WithFuelStep(0))
	assert.Error(t, err)

	_, err = NewPlanner(50, 10, WithFuelStep(100))
	assert.Error(t, err)
}

func TestTripWithinInitialRange(t *testing.T) {
	// range is 500 miles on a full tank, route is shorter
	p := newTestPlanner(t)

	for _, algo := range []string{AlgorithmGreedy, AlgorithmDijkstra} {
		stops, err := p.FindOptimalStops(testGeometry, nil, 480, 50, algo)
		assert.NoError(t, err, algo)
		assert.Empty(t, stops, algo)

		plan := p.BuildPlan(stops)
		assert.Equal(t, 0.0, plan.TotalCost, algo)
		assert.Equal(t, 0.0, plan.TotalGallonsPurchased, algo)
		assert.False(t, plan.Estimated, algo)
	}
}

func TestSingleStationTopUp(t *testing.T) {
	// 600 mile route, one station at mile 400; both planners must use it.
	// Arriving with 10 gallons, 20 are needed for the last 200 miles.
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{stationAtMiles(1, 400, 3.00)}

	stops, err := p.FindOptimalStops(testGeometry, stations, 600, 50, AlgorithmGreedy)
	assert.NoError(t, err)
	if assert.Len(t, stops, 1) {
		assert.InDelta(t, 10.0, stops[0].ArrivalFuelGallons, 1e-6)
		// exact shortfall plus the 5 percent safety buffer
		assert.InDelta(t, 10.5, stops[0].PurchasedGallons, 1e-6)
		assert.InDelta(t, 31.5, stops[0].CostAtStop, 1e-6)
	}

	stops, err = p.FindOptimalStops(testGeometry, stations, 600, 50, AlgorithmDijkstra)
	assert.NoError(t, err)
	if assert.Len(t, stops, 1) {
		assert.InDelta(t, 10.0, stops[0].ArrivalFuelGallons, 1e-6)
		// exact planner buys only the shortfall, quantized
		assert.InDelta(t, 10.0, stops[0].PurchasedGallons, 1e-6)
		assert.InDelta(t, 30.0, stops[0].CostAtStop, 1e-6)
	}
}

func TestExactPlannerBeatsGreedy(t *testing.T) {
	// Greedy fills to capacity at the expensive first station. The optimal
	// schedule buys only enough there to reach the cheap station and loads
	// up on the rest at the lower price.
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{
		stationAtMiles(1, 100, 3.00),
		stationAtMiles(2, 450, 2.00),
	}

	greedyStops, err := p.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmGreedy)
	assert.NoError(t, err)
	greedyPlan := p.BuildPlan(greedyStops)
	assert.InDelta(t, 183.0, greedyPlan.TotalCost, 1e-6)

	exactStops, err := p.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmDijkstra)
	assert.NoError(t, err)
	exactPlan := p.BuildPlan(exactStops)
	assert.InDelta(t, 165.0, exactPlan.TotalCost, 1e-6)

	if assert.Len(t, exactStops, 2) {
		assert.Equal(t, int64(1), exactStops[0].Station.ID)
		assert.InDelta(t, 10.0, exactStops[0].ArrivalFuelGallons, 1e-6)
		assert.InDelta(t, 25.0, exactStops[0].PurchasedGallons, 1e-6)
		assert.Equal(t, int64(2), exactStops[1].Station.ID)
		assert.InDelta(t, 0.0, exactStops[1].ArrivalFuelGallons, 1e-6)
		assert.InDelta(t, 45.0, exactStops[1].PurchasedGallons, 1e-6)
	}

	assert.LessOrEqual(t, exactPlan.TotalCost, greedyPlan.TotalCost)
}

func TestGapBeyondRangeUnreachable(t *testing.T) {
	// 600 miles between consecutive stations, range is only 500
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{
		stationAtMiles(1, 100, 3.00),
		stationAtMiles(2, 700, 2.00),
	}

	for _, algo := range []string{AlgorithmGreedy, AlgorithmDijkstra} {
		_, err := p.FindOptimalStops(testGeometry, stations, 1200, 50, algo)
		assert.ErrorIs(t, err, ErrRouteUnreachable, algo)
	}
}

func TestInitialFuelOutOfRange(t *testing.T) {
	p := newTestPlanner(t)

	_, err := p.FindOptimalStops(testGeometry, nil, 100, -1, AlgorithmGreedy)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = p.FindOptimalStops(testGeometry, nil, 100, 51, AlgorithmDijkstra)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUnknownAlgorithmFallsBackToGreedy(t *testing.T) {
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{stationAtMiles(1, 400, 3.00)}

	stops, err := p.FindOptimalStops(testGeometry, stations, 600, 50, "simulated-annealing")
	assert.NoError(t, err)
	if assert.Len(t, stops, 1) {
		assert.InDelta(t, 10.5, stops[0].PurchasedGallons, 1e-6)
	}
}

func TestDegenerateGeometryEmptyPlan(t *testing.T) {
	p := newTestPlanner(t)

	stops, err := p.FindOptimalStops(testGeometry[:1], nil, 100, 50, AlgorithmGreedy)
	assert.NoError(t, err)
	assert.Empty(t, stops)

	stops, err = p.FindOptimalStops(testGeometry, nil, 0, 50, AlgorithmDijkstra)
	assert.NoError(t, err)
	assert.Empty(t, stops)
}

func TestDenseEdgesMatchPrunedCost(t *testing.T) {
	stations := []datastructure.FuelStation{
		stationAtMiles(1, 100, 3.00),
		stationAtMiles(2, 250, 3.40),
		stationAtMiles(3, 450, 2.00),
		stationAtMiles(4, 620, 2.80),
	}

	pruned := newTestPlanner(t)
	dense := newTestPlanner(t, WithDenseEdges())

	prunedStops, err := pruned.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmDijkstra)
	assert.NoError(t, err)
	denseStops, err := dense.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmDijkstra)
	assert.NoError(t, err)

	assert.InDelta(t, pruned.BuildPlan(prunedStops).TotalCost,
		dense.BuildPlan(denseStops).TotalCost, 1e-6)
}

func TestPlannerDeterministic(t *testing.T) {
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{
		stationAtMiles(1, 100, 3.00),
		stationAtMiles(2, 450, 2.00),
	}

	first, err := p.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmDijkstra)
	assert.NoError(t, err)
	second, err := p.FindOptimalStops(testGeometry, stations, 900, 20, AlgorithmDijkstra)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlannerDeterministicWithTiedDistances(t *testing.T) {
	p := newTestPlanner(t)
	// identical distance-along and price, only the ids differ; the selected
	// stop must not depend on sort luck
	stations := []datastructure.FuelStation{
		stationAtMiles(3, 300, 3.00),
		stationAtMiles(1, 300, 3.00),
		stationAtMiles(2, 300, 3.00),
	}

	for _, algo := range []string{AlgorithmGreedy, AlgorithmDijkstra} {
		first, err := p.FindOptimalStops(testGeometry, stations, 700, 40, algo)
		assert.NoError(t, err, algo)
		assert.NotEmpty(t, first, algo)

		for i := 0; i < 50; i++ {
			again, err := p.FindOptimalStops(testGeometry, stations, 700, 40, algo)
			assert.NoError(t, err, algo)
			assert.Equal(t, first, again, algo)
		}
	}

	// greedy resolves price ties by taking the first station in order, and
	// the id tiebreak makes that order the id order
	stops, err := p.FindOptimalStops(testGeometry, stations, 700, 40, AlgorithmGreedy)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stops[0].Station.ID)
}

func TestStopInvariants(t *testing.T) {
	p := newTestPlanner(t)
	stations := []datastructure.FuelStation{
		stationAtMiles(1, 100, 3.00),
		stationAtMiles(2, 250, 3.40),
		stationAtMiles(3, 450, 2.00),
		stationAtMiles(4, 620, 2.80),
	}

	for _, algo := range []string{AlgorithmGreedy, AlgorithmDijkstra} {
		stops, err := p.FindOptimalStops(testGeometry, stations, 900, 20, algo)
		assert.NoError(t, err, algo)

		prevDistance := -1.0
		for _, stop := range stops {
			assert.GreaterOrEqual(t, stop.ArrivalFuelGallons, 0.0, algo)
			assert.LessOrEqual(t,
				stop.ArrivalFuelGallons+stop.PurchasedGallons,
				p.CapacityGallons()+0.01, algo)
			assert.Greater(t, stop.Station.DistanceAlongRouteKm, prevDistance, algo)
			prevDistance = stop.Station.DistanceAlongRouteKm
		}
	}
}

func TestEstimatePlan(t *testing.T) {
	p := newTestPlanner(t)

	plan := p.EstimatePlan(600, 3.50)
	assert.True(t, plan.Estimated)
	assert.Empty(t, plan.Stops)
	assert.InDelta(t, 60.0, plan.TotalGallonsPurchased, 1e-6)
	assert.InDelta(t, 210.0, plan.TotalCost, 1e-6)
}

func TestBuildPlanTotals(t *testing.T) {
	p := newTestPlanner(t)
	stops := []datastructure.FuelStop{
		{PurchasedGallons: 10.5, CostAtStop: 31.5},
		{PurchasedGallons: 20.0, CostAtStop: 44.0},
	}

	plan := p.BuildPlan(stops)
	assert.InDelta(t, 75.5, plan.TotalCost, 1e-6)
	assert.InDelta(t, 30.5, plan.TotalGallonsPurchased, 1e-6)
}

func TestSentinelErrorsDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrRouteUnreachable, ErrNoCandidateStations))
	assert.False(t, errors.Is(ErrNoCandidateStations, ErrInvalidRequest))
}
