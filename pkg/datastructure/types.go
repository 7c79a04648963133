package datastructure

import (
	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

// FuelStation is one normalized station record from the catalog.
// DistanceAlongRouteKm and DistanceFromRouteKm are zero until the station has
// been annotated by the proximity filter.
type FuelStation struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	PricePerGallon float64 `json:"price_per_gallon"`

	DistanceAlongRouteKm float64 `json:"distance_along_route_km"`
	DistanceFromRouteKm  float64 `json:"distance_from_route_km"`

	// closest point on the route itself, where a detour to this station
	// leaves the corridor
	SnappedLat float64 `json:"snapped_lat"`
	SnappedLon float64 `json:"snapped_lon"`
}

// FuelStop is one refueling decision in a plan.
type FuelStop struct {
	Station FuelStation `json:"station"`

	ArrivalFuelGallons float64 `json:"fuel_capacity_at_arrival"`
	PurchasedGallons   float64 `json:"fuel_purchased_gallons"`
	CostAtStop         float64 `json:"fuel_cost_at_stop"`
}

// FuelPlan is the planner output. Estimated is set when no candidate stations
// survived the proximity filter and the totals are a fleet-average estimate
// instead of a concrete stop schedule.
type FuelPlan struct {
	Stops                 []FuelStop `json:"stops"`
	TotalCost             float64    `json:"total_fuel_cost"`
	TotalGallonsPurchased float64    `json:"total_fuel_gallons"`
	Estimated             bool       `json:"estimated"`
}

func CreatePolyline(path []Coordinate) string {
	s := ""
	coords := make([][]float64, 0)
	for _, p := range path {
		pT := p
		coords = append(coords, []float64{pT.Lat, pT.Lon})
	}
	s = string(polyline.EncodeCoords(coords))
	return s
}
