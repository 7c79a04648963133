package geo

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"

	"github.com/golang/geo/s2"
)

// BoundingBox is an axis-aligned lat/lon box. Routes never cross the
// antimeridian in the catalog's coverage area, so no wraparound handling.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func ComputeBoundingBox(points []datastructure.Coordinate) BoundingBox {
	b := BoundingBox{
		MinLat: math.MaxFloat64,
		MaxLat: -math.MaxFloat64,
		MinLon: math.MaxFloat64,
		MaxLon: -math.MaxFloat64,
	}
	for _, p := range points {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}

// ExpandByKm grows the box by distanceKm on every side, converting km to
// degrees with 111 km per degree latitude and 111*cos(avgLat) km per degree
// longitude.
func (b BoundingBox) ExpandByKm(distanceKm float64) BoundingBox {
	avgLat := (b.MinLat + b.MaxLat) / 2
	latDeg := distanceKm / kmPerDegreeLat
	lonDeg := distanceKm / (kmPerDegreeLat * math.Cos(degreeToRadians(avgLat)))

	return BoundingBox{
		MinLat: b.MinLat - latDeg,
		MaxLat: b.MaxLat + latDeg,
		MinLon: b.MinLon - lonDeg,
		MaxLon: b.MaxLon + lonDeg,
	}
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// PointToSegmentDistanceKm computes the distance from point p to segment
// (a, b) on an equirectangular projection centered on a. The projection
// parameter is clamped to [0,1] so endpoint cases fall back to endpoint
// distance. This is an approximation of the geodesic distance but is O(1)
// per segment, which matters when scanning every segment of a long route.
func PointToSegmentDistanceKm(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	latScale := kmPerDegreeLat
	lonScale := kmPerDegreeLat * math.Cos(degreeToRadians(pLat))

	px := (pLon - aLon) * lonScale
	py := (pLat - aLat) * latScale
	bx := (bLon - aLon) * lonScale
	by := (bLat - aLat) * latScale

	segLenSq := bx*bx + by*by
	if segLenSq == 0.0 {
		// segment degenerates to a point
		return math.Sqrt(px*px + py*py)
	}

	t := (px*bx + py*by) / segLenSq

	if t <= 0.0 {
		return math.Sqrt(px*px + py*py)
	} else if t >= 1.0 {
		cx := px - bx
		cy := py - by
		return math.Sqrt(cx*cx + cy*cy)
	}

	cx := px - t*bx
	cy := py - t*by
	return math.Sqrt(cx*cx + cy*cy)
}

// ProjectPointToSegment snaps p onto the great-circle segment (a, b) and
// returns the snapped coordinate. Used only for reporting, the filter's
// distance math stays planar.
func ProjectPointToSegment(a, b, p datastructure.Coordinate) datastructure.Coordinate {
	aS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	bS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lon))
	pS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	projection := s2.Project(pS2, aS2, bS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}
