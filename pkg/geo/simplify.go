package geo

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
)

// turn angle above which a vertex is always retained
const maxTurnAngleRad = 15.0 * math.Pi / 180.0

// SimplifyRouteGeometry reduces the polyline to at most maxPoints points.
// First and last point are always retained. A point is retained when it falls
// on the sampling stride len/maxPoints since the last retained point, or when
// the turn angle formed with its neighbors exceeds 15 degrees, so sharp
// direction changes are biased toward retention. If the stride+angle pass
// still leaves more than maxPoints, a uniform thinning pass over the reduced
// set brings it under the cap.
//
// Polylines already at or under maxPoints are returned unchanged.
func SimplifyRouteGeometry(points []datastructure.Coordinate, maxPoints int) []datastructure.Coordinate {
	if maxPoints < 2 || len(points) <= maxPoints {
		return points
	}

	optimized := make([]datastructure.Coordinate, 0, maxPoints+1)
	optimized = append(optimized, points[0])

	step := float64(len(points)) / float64(maxPoints)

	lastIdx := 0
	for i := 1; i < len(points)-1; i++ {
		if float64(i-lastIdx) >= step {
			optimized = append(optimized, points[i])
			lastIdx = i
			continue
		}

		if i < 2 {
			continue
		}

		if turnAngleRad(points[i-1], points[i], points[i+1]) > maxTurnAngleRad {
			optimized = append(optimized, points[i])
			lastIdx = i
		}
	}

	optimized = append(optimized, points[len(points)-1])

	if len(optimized) > maxPoints {
		optimized = uniformThin(optimized, maxPoints)
	}

	return optimized
}

// turnAngleRad is the angle between the incoming and outgoing direction
// vectors at p2, computed on planar lat/lon deltas. Returns 0 for degenerate
// zero-length vectors so duplicated vertices never trigger retention.
func turnAngleRad(p1, p2, p3 datastructure.Coordinate) float64 {
	v1Lat := p2.Lat - p1.Lat
	v1Lon := p2.Lon - p1.Lon
	v2Lat := p3.Lat - p2.Lat
	v2Lon := p3.Lon - p2.Lon

	mag1 := math.Sqrt(v1Lat*v1Lat + v1Lon*v1Lon)
	mag2 := math.Sqrt(v2Lat*v2Lat + v2Lon*v2Lon)
	if mag1 == 0 || mag2 == 0 {
		return 0
	}

	cosAngle := (v1Lat*v2Lat + v1Lon*v2Lon) / (mag1 * mag2)
	cosAngle = math.Max(-1, math.Min(1, cosAngle)) // acos domain
	return math.Acos(cosAngle)
}

// uniformThin keeps first and last and an even stride of the middle points,
// guaranteeing the result has at most maxPoints entries.
func uniformThin(points []datastructure.Coordinate, maxPoints int) []datastructure.Coordinate {
	step := float64(len(points)) / float64(maxPoints-1)

	thinned := make([]datastructure.Coordinate, 0, maxPoints)
	thinned = append(thinned, points[0])
	for i := 1; i < len(points)-1; i++ {
		if int(float64(i)/step) > int(float64(i-1)/step) {
			thinned = append(thinned, points[i])
		}
	}
	thinned = append(thinned, points[len(points)-1])
	return thinned
}
