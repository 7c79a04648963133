package fuel

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/util"
)

// greedy repeatedly drives to the cheapest station reachable ahead of the
// current position, refuels, and continues. It minimizes price at each
// decision point but is not guaranteed globally cost-optimal.
//
// Refuel policy: at the final stop (destination reachable within one full
// tank from here) buy only what the remaining leg needs plus a small safety
// reserve; everywhere else fill to capacity.
func (p *Planner) greedy(totalDistanceMiles, initialFuelGallons float64,
	stations []datastructure.FuelStation) ([]datastructure.FuelStop, error) {

	currentFuel := initialFuelGallons
	positionMiles := 0.0
	stops := make([]datastructure.FuelStop, 0)
	visited := make(map[int64]bool)

	iteration := 0
	for positionMiles < totalDistanceMiles {
		iteration++
		p.tracer.IterationStart(iteration, positionMiles, currentFuel)

		rangeMiles := currentFuel * p.milesPerGallon
		remainingMiles := totalDistanceMiles - positionMiles

		if remainingMiles <= rangeMiles {
			// destination reachable with fuel in tank
			p.tracer.Finished("destination reachable", len(stops))
			return stops, nil
		}

		// cheapest unvisited station strictly ahead and within range;
		// ties keep the first encountered in input order
		best := -1
		for i, station := range stations {
			distToStation := milesFromKm(station.DistanceAlongRouteKm) - positionMiles
			if distToStation <= 0 || distToStation > rangeMiles || visited[station.ID] {
				continue
			}
			if best == -1 || station.PricePerGallon < stations[best].PricePerGallon {
				best = i
			}
		}

		if best == -1 {
			p.tracer.Finished("no reachable station", len(stops))
			return nil, ErrRouteUnreachable
		}

		station := stations[best]
		stationMiles := milesFromKm(station.DistanceAlongRouteKm)

		fuelConsumed := (stationMiles - positionMiles) / p.milesPerGallon
		currentFuel -= fuelConsumed
		arrivalFuel := currentFuel

		remainingToEnd := totalDistanceMiles - stationMiles
		minFuelNeeded := remainingToEnd / p.milesPerGallon

		var fuelAdded float64
		if remainingToEnd <= p.MaxRangeMiles() {
			// final stop: top up just enough for the last leg plus reserve
			fuelNeeded := minFuelNeeded - currentFuel
			if fuelNeeded <= 0 {
				fuelAdded = p.reserveMinGallons
			} else {
				fuelAdded = math.Min(fuelNeeded, p.capacityGallons-currentFuel)
				reserve := math.Max(p.reserveMinGallons, fuelAdded*p.reserveFraction)
				fuelAdded = math.Min(fuelAdded+reserve, p.capacityGallons-currentFuel)
			}
		} else {
			fuelAdded = p.capacityGallons - currentFuel
		}

		currentFuel += fuelAdded
		costAtStop := fuelAdded * station.PricePerGallon

		p.tracer.StopSelected(station, fuelAdded, costAtStop)

		stops = append(stops, datastructure.FuelStop{
			Station:            station,
			ArrivalFuelGallons: util.RoundFloat(arrivalFuel, 2),
			PurchasedGallons:   util.RoundFloat(fuelAdded, 2),
			CostAtStop:         util.RoundFloat(costAtStop, 2),
		})
		visited[station.ID] = true
		positionMiles = stationMiles
	}

	p.tracer.Finished("position passed destination", len(stops))
	return stops, nil
}
