package geo

import (
	"testing"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// solo balapan station -> ums
	distKm := CalculateHaversineDistance(-7.556823, 110.821559, -7.559620, 110.765312)

	assert.InDelta(t, 6.2, distKm, 0.2)
}

func TestCalculateHaversineDistanceZero(t *testing.T) {
	distKm := CalculateHaversineDistance(40.7128, -74.0060, 40.7128, -74.0060)
	if distKm != 0 {
		t.Errorf("expected 0, got %f", distKm)
	}
}

func TestRoutePrefixMatchesSingleQuery(t *testing.T) {
	points := []datastructure.Coordinate{
		{Lat: -7.556823, Lon: 110.821559},
		{Lat: -7.559620, Lon: 110.765312},
		{Lat: -7.565837, Lon: 110.831586},
		{Lat: -7.566406, Lon: 110.833232},
	}

	prefix := NewRoutePrefix(points)
	for k := range points {
		assert.InDelta(t, RouteDistanceKm(points, k), prefix.DistanceKm(k), 1e-9)
	}
	assert.Equal(t, prefix.DistanceKm(len(points)-1), prefix.TotalKm())
}

func TestRoutePrefixMonotone(t *testing.T) {
	points := []datastructure.Coordinate{
		{Lat: 35.0, Lon: -100.0},
		{Lat: 35.1, Lon: -100.2},
		{Lat: 35.2, Lon: -100.4},
		{Lat: 35.3, Lon: -100.6},
	}
	prefix := NewRoutePrefix(points)
	for k := 1; k < len(points); k++ {
		if prefix.DistanceKm(k) <= prefix.DistanceKm(k-1) {
			t.Errorf("prefix not strictly increasing at %d", k)
		}
	}
}
