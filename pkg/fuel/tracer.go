package fuel

import (
	"log"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
)

// Tracer receives checkpoints from the planners. The planners hold no global
// state of their own, diagnostics go through this interface so the algorithms
// stay independently testable.
type Tracer interface {
	IterationStart(iteration int, positionMiles, fuelGallons float64)
	StopSelected(station datastructure.FuelStation, purchasedGallons, costAtStop float64)
	Finished(reason string, totalStops int)
}

type NopTracer struct{}

func (NopTracer) IterationStart(int, float64, float64)                       {}
func (NopTracer) StopSelected(datastructure.FuelStation, float64, float64)   {}
func (NopTracer) Finished(string, int)                                       {}

// LogTracer writes checkpoints through the standard logger.
type LogTracer struct{}

func (LogTracer) IterationStart(iteration int, positionMiles, fuelGallons float64) {
	log.Printf("planner iteration %d: position=%.2f miles fuel=%.2f gallons", iteration, positionMiles, fuelGallons)
}

func (LogTracer) StopSelected(station datastructure.FuelStation, purchasedGallons, costAtStop float64) {
	log.Printf("planner selected stop %q: +%.2f gallons ($%.2f)", station.Name, purchasedGallons, costAtStop)
}

func (LogTracer) Finished(reason string, totalStops int) {
	log.Printf("planner finished (%s), %d stop(s)", reason, totalStops)
}
