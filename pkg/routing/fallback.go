package routing

import (
	"context"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
)

// StraightLineRouter approximates a route as a straight line with a vertex
// every ~10 km. Used when no routing provider is configured and in tests.
type StraightLineRouter struct{}

func NewStraightLineRouter() StraightLineRouter {
	return StraightLineRouter{}
}

func (StraightLineRouter) Directions(_ context.Context, start, end datastructure.Coordinate) (*Route, error) {
	distanceKm := geo.CalculateHaversineDistance(start.Lat, start.Lon, end.Lat, end.Lon)

	numPoints := int(distanceKm/10) + 1
	if numPoints < 2 {
		numPoints = 2
	}

	geometry := make([]datastructure.Coordinate, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		ratio := float64(i) / float64(numPoints-1)
		geometry = append(geometry, datastructure.NewCoordinate(
			start.Lat+(end.Lat-start.Lat)*ratio,
			start.Lon+(end.Lon-start.Lon)*ratio,
		))
	}

	return &Route{
		Geometry:       geometry,
		DistanceMeters: distanceKm * 1000,
	}, nil
}
