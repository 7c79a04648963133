package fuel

import "errors"

var (
	// ErrRouteUnreachable means a gap between two consecutive necessary
	// waypoints (including start and destination) exceeds the vehicle's
	// maximum range. The planners fail outright instead of returning a
	// partial plan that would misrepresent feasibility.
	ErrRouteUnreachable = errors.New("route unreachable: gap exceeds maximum driving range")

	// ErrNoCandidateStations means no station survived the proximity filter.
	// Callers degrade to a fleet-average estimate, see Planner.EstimatePlan.
	ErrNoCandidateStations = errors.New("no fuel stations near route")

	ErrInvalidRequest = errors.New("invalid plan request")
)
