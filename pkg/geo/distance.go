package geo

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
)

const (
	earthRadiusKM = 6371.0

	// degree-to-distance scaling used by the planar approximations
	kmPerDegreeLat = 111.0

	KmPerMile = 1.60934
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// very slow
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// RouteDistanceKm returns the cumulative great-circle distance in km from
// point 0 to point k of the polyline, summing consecutive-pair haversine
// distances. O(k) per call; callers with repeated queries should build a
// RoutePrefix instead.
func RouteDistanceKm(points []datastructure.Coordinate, k int) float64 {
	totalKm := 0.0
	for i := 0; i < k && i+1 < len(points); i++ {
		totalKm += CalculateHaversineDistance(points[i].Lat, points[i].Lon,
			points[i+1].Lat, points[i+1].Lon)
	}
	return totalKm
}

// RoutePrefix holds prefix sums of along-route distance, one entry per
// polyline point. prefix[k] = distance from point 0 to point k in km.
type RoutePrefix struct {
	prefix []float64
}

func NewRoutePrefix(points []datastructure.Coordinate) RoutePrefix {
	prefix := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prefix[i] = prefix[i-1] + CalculateHaversineDistance(points[i-1].Lat, points[i-1].Lon,
			points[i].Lat, points[i].Lon)
	}
	return RoutePrefix{prefix: prefix}
}

func (r RoutePrefix) DistanceKm(k int) float64 {
	return r.prefix[k]
}

func (r RoutePrefix) TotalKm() float64 {
	if len(r.prefix) == 0 {
		return 0
	}
	return r.prefix[len(r.prefix)-1]
}
