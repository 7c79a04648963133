package datastructure_test

import (
	"math"
	"testing"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func randomCost(min, max int) float64 {
	return float64(min + rand.Intn(max-min))
}

type tankLevel struct {
	stationIdx int
	fuelSteps  int
}

func TestFibonacciHeapInsertExtractMin(t *testing.T) {
	pq := datastructure.NewFibonacciHeap[tankLevel]()
	if pq == nil {
		t.Errorf("heap is nil")
	}

	min := math.MaxFloat64
	for i := 0; i < 10000; i++ {
		cost := randomCost(0, 10000)
		if cost < min {
			min = cost
		}
		pq.Insert(tankLevel{stationIdx: i, fuelSteps: i % 50}, cost)
	}

	assert.Equal(t, 10000, pq.Size())

	entry := pq.ExtractMin()
	assert.Equal(t, min, entry.GetPriority())
	assert.Equal(t, 9999, pq.Size())
}

func TestFibonacciHeapExtractsInCostOrder(t *testing.T) {
	pq := datastructure.NewFibonacciHeap[tankLevel]()

	for i := 0; i < 1000; i++ {
		pq.Insert(tankLevel{stationIdx: i}, randomCost(0, 100000))
	}

	prev := -1.0
	for pq.Size() > 0 {
		entry := pq.ExtractMin()
		assert.GreaterOrEqual(t, entry.GetPriority(), prev)
		prev = entry.GetPriority()
	}
}

func TestFibonacciHeapDecreaseKey(t *testing.T) {
	pq := datastructure.NewFibonacciHeap[tankLevel]()

	cheap := pq.Insert(tankLevel{stationIdx: 1, fuelSteps: 10}, 120.0)
	pq.Insert(tankLevel{stationIdx: 2, fuelSteps: 20}, 80.0)

	pq.DecreaseKey(cheap, 50.0)

	entry := pq.ExtractMin()
	assert.Equal(t, 1, entry.GetElem().stationIdx)
	assert.Equal(t, 50.0, entry.GetPriority())
}

func TestFibonacciHeapDuplicatePayloads(t *testing.T) {
	// the planner pushes the same tank state more than once and skips the
	// stale extraction, the heap must tolerate duplicates
	pq := datastructure.NewFibonacciHeap[tankLevel]()

	state := tankLevel{stationIdx: 3, fuelSteps: 7}
	pq.Insert(state, 42.0)
	pq.Insert(state, 30.0)

	first := pq.ExtractMin()
	second := pq.ExtractMin()

	assert.Equal(t, 30.0, first.GetPriority())
	assert.Equal(t, 42.0, second.GetPriority())
	assert.Equal(t, state, first.GetElem())
	assert.Equal(t, state, second.GetElem())
	assert.Equal(t, 0, pq.Size())
}
