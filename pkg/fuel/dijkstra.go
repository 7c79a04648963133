package fuel

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/util"
)

const distEpsilon = 1e-6

// node is a virtual graph vertex along the route. The start and destination
// carry an infinite price so fuel can never be bought there.
type node struct {
	distanceMiles float64
	priceGallon   float64
	station       *datastructure.FuelStation
}

// tankState identifies a Dijkstra search state: standing at a node with a
// given amount of fuel, quantized to fuelStepGallons increments.
type tankState struct {
	nodeIdx   int
	fuelSteps int
}

// dijkstra finds the minimum cost set of fuel purchases over states of
// (station, quantized fuel). Purchases are explored one fuel step at a
// time; driving moves along a pruned edge set so the state space stays
// small even on long routes.
func (p *Planner) dijkstra(totalDistanceMiles, initialFuelGallons float64,
	stations []datastructure.FuelStation) ([]datastructure.FuelStop, error) {

	nodes := make([]node, 0, len(stations)+2)
	nodes = append(nodes, node{distanceMiles: 0, priceGallon: math.Inf(1)})
	for i := range stations {
		nodes = append(nodes, node{
			distanceMiles: milesFromKm(stations[i].DistanceAlongRouteKm),
			priceGallon:   stations[i].PricePerGallon,
			station:       &stations[i],
		})
	}
	nodes = append(nodes, node{distanceMiles: totalDistanceMiles, priceGallon: math.Inf(1)})

	n := len(nodes)
	capSteps := p.gallonsToSteps(p.capacityGallons, false)
	initialSteps := p.gallonsToSteps(math.Min(initialFuelGallons, p.capacityGallons), false)
	if initialSteps > capSteps {
		initialSteps = capSteps
	}
	maxRangeMiles := p.MaxRangeMiles()

	for idx := 1; idx < n; idx++ {
		segment := nodes[idx].distanceMiles - nodes[idx-1].distanceMiles
		if segment-distEpsilon > maxRangeMiles {
			// even a full tank cannot bridge this gap
			return nil, ErrRouteUnreachable
		}
	}

	reachableEnd := p.slidingReachableEnd(nodes, maxRangeMiles)
	nextCheaper := nextCheaperIndex(nodes)
	edges := p.buildEdges(nodes, reachableEnd, nextCheaper, maxRangeMiles)
	for i := 0; i < n-1; i++ {
		if len(edges[i]) == 0 {
			return nil, ErrRouteUnreachable
		}
	}

	best := make([][]float64, n)
	for i := range best {
		best[i] = make([]float64, capSteps+1)
		for f := range best[i] {
			best[i][f] = math.Inf(1)
		}
	}
	best[0][initialSteps] = 0
	parent := map[tankState]tankState{}

	pq := datastructure.NewFibonacciHeap[tankState]()
	pq.Insert(tankState{0, initialSteps}, 0)

	for pq.Size() > 0 {
		entry := pq.ExtractMin()
		cost := entry.GetPriority()
		state := entry.GetElem()
		i, f := state.nodeIdx, state.fuelSteps

		if cost != best[i][f] {
			continue // stale entry
		}
		if i == n-1 {
			return p.reconstruct(nodes, parent, state), nil
		}

		// buy one fuel step at this node
		if f < capSteps {
			nextCost := cost + nodes[i].priceGallon*p.fuelStepGallons
			if nextCost < best[i][f+1] {
				best[i][f+1] = nextCost
				pq.Insert(tankState{i, f + 1}, nextCost)
				parent[tankState{i, f + 1}] = state
			}
		}

		// drive to a pruned set of next nodes
		for _, e := range edges[i] {
			if e.neededSteps > f {
				continue
			}
			nextF := f - e.neededSteps
			if cost < best[e.to][nextF] {
				best[e.to][nextF] = cost
				pq.Insert(tankState{e.to, nextF}, cost)
				parent[tankState{e.to, nextF}] = state
			}
		}
	}

	return nil, ErrRouteUnreachable
}

type edge struct {
	to          int
	neededSteps int
}

// slidingReachableEnd computes, for each node, the furthest node index still
// within a full tank of driving. Single forward pass since distances are
// sorted.
func (p *Planner) slidingReachableEnd(nodes []node, maxRangeMiles float64) []int {
	n := len(nodes)
	reachable := make([]int, n)
	right := 0
	for i := 0; i < n; i++ {
		if right < i {
			right = i
		}
		for right+1 < n && nodes[right+1].distanceMiles-nodes[i].distanceMiles <= maxRangeMiles+distEpsilon {
			right++
		}
		reachable[i] = right
	}
	return reachable
}

// nextCheaperIndex finds, for each node, the nearest node ahead with a
// strictly lower price, using a monotonic stack scanned right to left.
// -1 means no cheaper node exists ahead.
func nextCheaperIndex(nodes []node) []int {
	n := len(nodes)
	next := make([]int, n)
	stack := make([]int, 0, n)
	for idx := n - 1; idx >= 0; idx-- {
		price := nodes[idx].priceGallon
		for len(stack) > 0 && price <= nodes[stack[len(stack)-1]].priceGallon {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			next[idx] = stack[len(stack)-1]
		} else {
			next[idx] = -1
		}
		if !math.IsInf(price, 1) {
			stack = append(stack, idx)
		}
	}
	return next
}

// buildEdges registers the driving edges out of each node. In the default
// pruned mode only the immediate neighbor, the next cheaper station, the
// range limit and the destination are kept; candidates outside those are
// never part of an optimal plan. Dense mode keeps every reachable pair and
// exists to cross-check the pruning.
func (p *Planner) buildEdges(nodes []node, reachableEnd, nextCheaper []int,
	maxRangeMiles float64) [][]edge {

	n := len(nodes)
	edges := make([][]edge, n)

	register := func(src, dst int) {
		dist := nodes[dst].distanceMiles - nodes[src].distanceMiles
		if dst <= src || dist < -distEpsilon || dist > maxRangeMiles+distEpsilon {
			return
		}
		gallons := dist / p.milesPerGallon
		if gallons > p.capacityGallons+distEpsilon {
			return
		}
		needed := p.gallonsToSteps(gallons, true)
		for _, e := range edges[src] {
			if e.to == dst {
				return
			}
		}
		edges[src] = append(edges[src], edge{to: dst, neededSteps: needed})
	}

	for i := 0; i < n-1; i++ {
		maxIdx := reachableEnd[i]
		if maxIdx <= i {
			continue
		}
		if p.denseEdges {
			for j := i + 1; j <= maxIdx; j++ {
				register(i, j)
			}
			continue
		}
		register(i, i+1)
		if cheaper := nextCheaper[i]; cheaper != -1 && cheaper <= maxIdx {
			register(i, cheaper)
		}
		register(i, maxIdx)
		if maxIdx >= n-1 {
			register(i, n-1)
		}
	}
	return edges
}

// reconstruct walks the parent chain back from the destination state and
// coalesces consecutive one-step purchases at the same node into a single
// stop, recording the fuel level on first arrival.
func (p *Planner) reconstruct(nodes []node, parent map[tankState]tankState,
	dest tankState) []datastructure.FuelStop {

	path := make([]tankState, 0)
	cur, ok := dest, true
	for ok {
		path = append(path, cur)
		cur, ok = parent[cur]
	}
	path = util.ReverseG(path)

	stops := make([]datastructure.FuelStop, 0)
	arrivalSteps := path[0].fuelSteps
	purchasedSteps := 0

	flush := func(idx int) {
		st := nodes[idx].station
		if st == nil || purchasedSteps <= 0 {
			return
		}
		purchased := p.stepsToGallons(purchasedSteps)
		cost := purchased * nodes[idx].priceGallon
		stop := datastructure.FuelStop{
			Station:            *st,
			ArrivalFuelGallons: util.RoundFloat(p.stepsToGallons(arrivalSteps), 2),
			PurchasedGallons:   util.RoundFloat(purchased, 2),
			CostAtStop:         util.RoundFloat(cost, 2),
		}
		p.tracer.StopSelected(*st, stop.PurchasedGallons, stop.CostAtStop)
		stops = append(stops, stop)
	}

	for k := 1; k < len(path); k++ {
		prev, curr := path[k-1], path[k]
		if curr.nodeIdx == prev.nodeIdx {
			purchasedSteps += curr.fuelSteps - prev.fuelSteps
			continue
		}
		flush(prev.nodeIdx)
		arrivalSteps = curr.fuelSteps
		purchasedSteps = 0
	}
	p.tracer.Finished("destination reached", len(stops))
	return stops
}

func (p *Planner) gallonsToSteps(gallons float64, roundUp bool) int {
	scaled := gallons / p.fuelStepGallons
	if roundUp {
		return int(math.Ceil(scaled - 1e-9))
	}
	return int(math.Round(scaled))
}

func (p *Planner) stepsToGallons(steps int) float64 {
	return float64(steps) * p.fuelStepGallons
}
