package fuel

import (
	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
)

const (
	// DefaultMaxDistanceKm is the corridor half-width used when filtering
	// stations against a route.
	DefaultMaxDistanceKm = 5.0

	// earlyExitKm stops the segment scan once a station is effectively on
	// the route.
	earlyExitKm = 0.05
)

// RouteShape is an immutable view of a route polyline with precomputed
// cumulative distances and bounding box, so a batch of stations can be
// filtered without recomputing either.
type RouteShape struct {
	points []datastructure.Coordinate
	prefix geo.RoutePrefix
	bbox   geo.BoundingBox
}

func NewRouteShape(points []datastructure.Coordinate) *RouteShape {
	return &RouteShape{
		points: points,
		prefix: geo.NewRoutePrefix(points),
		bbox:   geo.ComputeBoundingBox(points),
	}
}

func (r *RouteShape) Points() []datastructure.Coordinate { return r.points }

// TotalDistanceKm is the length of the whole polyline.
func (r *RouteShape) TotalDistanceKm() float64 { return r.prefix.TotalKm() }

// DistanceAlongKm is the cumulative length from the start up to vertex idx.
func (r *RouteShape) DistanceAlongKm(idx int) float64 { return r.prefix.DistanceKm(idx) }

// FilterStation tests one station against the route corridor. A cheap
// bounding box check rejects most of the catalog before any segment math
// runs. The surviving stations are scanned segment by segment with an
// adaptive stride so very long polylines cost roughly the same as short
// ones; the scan stops early once the station is within 50 m of the route.
//
// On acceptance the returned copy is annotated with the perpendicular
// distance from the route, the cumulative distance along the route to the
// closest segment, and the snapped coordinate of the closest point on that
// segment. ok is false when the station lies outside the corridor or the
// polyline is degenerate.
func (r *RouteShape) FilterStation(station datastructure.FuelStation,
	maxDistanceKm float64) (datastructure.FuelStation, bool) {

	if len(r.points) < 2 {
		return station, false
	}

	expanded := r.bbox.ExpandByKm(maxDistanceKm)
	if !expanded.Contains(station.Lat, station.Lon) {
		return station, false
	}

	numSegments := len(r.points) - 1
	step := 1
	switch {
	case numSegments > 1000:
		step = numSegments / 1000
	case numSegments > 500:
		step = numSegments / 500
	}

	minDist := -1.0
	closestIdx := 0
	for i := 0; i < numSegments; i += step {
		dist := geo.PointToSegmentDistanceKm(
			station.Lat, station.Lon,
			r.points[i].Lat, r.points[i].Lon,
			r.points[i+1].Lat, r.points[i+1].Lon,
		)
		if minDist < 0 || dist < minDist {
			minDist = dist
			closestIdx = i
		}
		if minDist >= 0 && minDist < earlyExitKm {
			break
		}
	}

	if minDist < 0 || minDist > maxDistanceKm {
		return station, false
	}

	station.DistanceFromRouteKm = minDist
	station.DistanceAlongRouteKm = r.prefix.DistanceKm(closestIdx)

	snapped := geo.ProjectPointToSegment(
		r.points[closestIdx], r.points[closestIdx+1],
		datastructure.NewCoordinate(station.Lat, station.Lon))
	station.SnappedLat = snapped.Lat
	station.SnappedLon = snapped.Lon
	return station, true
}

// FilterStations keeps the stations inside the route corridor, annotated
// with their route distances. Input order is preserved.
func (r *RouteShape) FilterStations(stations []datastructure.FuelStation,
	maxDistanceKm float64) []datastructure.FuelStation {

	kept := make([]datastructure.FuelStation, 0, len(stations))
	for _, station := range stations {
		if annotated, ok := r.FilterStation(station, maxDistanceKm); ok {
			kept = append(kept, annotated)
		}
	}
	return kept
}
