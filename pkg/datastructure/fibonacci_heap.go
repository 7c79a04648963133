package datastructure

import (
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/util"
)

type Entry[T any] struct {
	degree   int
	isMarked bool

	next   *Entry[T]
	prev   *Entry[T]
	child  *Entry[T]
	parent *Entry[T]

	elem     T
	priority float64
}

func NewEntry[T any](elem T, priority float64) *Entry[T] {
	e := &Entry[T]{
		elem:     elem,
		priority: priority,
	}
	e.next = e
	e.prev = e

	return e
}

func (e *Entry[T]) GetPriority() float64 {
	return e.priority
}

func (e *Entry[T]) GetElem() T {
	return e.elem
}

// FibonacciHeap is a min-heap keyed by float64 priority. Insert and
// DecreaseKey are amortized O(1), ExtractMin amortized O(log n), which is why
// the discretized shortest-path search uses it as its frontier queue.
type FibonacciHeap[T any] struct {
	mMin  *Entry[T]
	mSize int
}

func NewFibonacciHeap[T any]() *FibonacciHeap[T] {
	return &FibonacciHeap[T]{
		mMin:  nil,
		mSize: 0,
	}
}

func (f *FibonacciHeap[T]) GetMin() *Entry[T] {
	return f.mMin
}

func (f *FibonacciHeap[T]) GetMinRank() float64 {
	if f.mMin == nil {
		return math.MaxFloat64
	}
	return f.mMin.priority
}

func (f *FibonacciHeap[T]) Size() int {
	return f.mSize
}

// Insert adds a new entry to the root list and returns it so callers can
// DecreaseKey it later.
func (f *FibonacciHeap[T]) Insert(value T, priority float64) *Entry[T] {
	result := NewEntry(value, priority)

	f.mMin = f.mergeLists(f.mMin, result)
	f.mSize++

	return result
}

// mergeLists splices two circular doubly-linked root lists together and
// returns the entry with the smaller priority.
func (f *FibonacciHeap[T]) mergeLists(one *Entry[T], two *Entry[T]) *Entry[T] {
	if one == nil && two == nil {
		return nil
	} else if one != nil && two == nil {
		return one
	} else if one == nil && two != nil {
		return two
	}

	oneNext := one.next
	one.next = two.next
	one.next.prev = one
	two.next = oneNext
	two.next.prev = two

	if one.priority < two.priority {
		return one
	}
	return two
}

func (f *FibonacciHeap[T]) DecreaseKey(entry *Entry[T], newPriority float64) {
	util.AssertPanic(newPriority <= entry.priority, "new priority must be less or equal than old priority")
	f.decreaseUnchecked(entry, newPriority)
}

func (f *FibonacciHeap[T]) decreaseUnchecked(entry *Entry[T], priority float64) {
	entry.priority = priority

	if entry.parent != nil && entry.priority <= entry.parent.priority {
		// heap order violated, cut the node from its parent
		f.cutNode(entry)
	}

	if entry.priority < f.mMin.priority {
		f.mMin = entry
	}
}

// cutNode moves entry to the root list and cascade-cuts marked ancestors.
func (f *FibonacciHeap[T]) cutNode(entry *Entry[T]) {
	entry.isMarked = false

	if entry.parent == nil {
		return
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
		entry.prev.next = entry.next
	}

	if entry.parent.child == entry {
		if entry.next != entry {
			entry.parent.child = entry.next
		} else {
			entry.parent.child = nil
		}
	}

	entry.parent.degree--

	entry.prev = entry
	entry.next = entry

	f.mMin = f.mergeLists(f.mMin, entry)

	if entry.parent.isMarked {
		f.cutNode(entry.parent)
	} else {
		entry.parent.isMarked = true
	}

	entry.parent = nil
}

// ExtractMin removes and returns the minimum entry, then consolidates the
// root list so no two roots share a degree.
func (f *FibonacciHeap[T]) ExtractMin() *Entry[T] {
	util.AssertPanic(f.mMin != nil, "heap is empty")

	f.mSize--

	minElem := f.mMin

	if f.mMin.next == f.mMin {
		f.mMin = nil
	} else {
		f.mMin.prev.next = f.mMin.next
		f.mMin.next.prev = f.mMin.prev
		f.mMin = f.mMin.next
	}

	if minElem.child != nil {
		// clear parent pointers of all children before promoting them
		start := minElem.child

		curr := minElem.child
		for {
			curr.parent = nil
			curr = curr.next
			if curr == start {
				break
			}
		}
	}

	f.mMin = f.mergeLists(f.mMin, minElem.child)

	if f.mMin == nil {
		return minElem
	}

	// consolidate: treeTable[i] holds the root with degree i seen so far
	treeTable := make([]*Entry[T], 0)

	toVisit := make([]*Entry[T], 0)
	for curr := f.mMin; len(toVisit) == 0 || toVisit[0] != curr; curr = curr.next {
		toVisit = append(toVisit, curr)
	}

	for _, curr := range toVisit {
		for {
			for curr.degree >= len(treeTable) {
				treeTable = append(treeTable, nil)
			}

			if treeTable[curr.degree] == nil {
				treeTable[curr.degree] = curr
				break
			}

			// two roots with equal degree, link the larger under the smaller
			other := treeTable[curr.degree]
			treeTable[curr.degree] = nil

			var (
				min, max *Entry[T]
			)

			if other.priority < curr.priority {
				min, max = other, curr
			} else {
				min, max = curr, other
			}

			max.next.prev = max.prev
			max.prev.next = max.next

			max.next = max
			max.prev = max
			min.child = f.mergeLists(min.child, max)

			max.parent = min

			max.isMarked = false

			min.degree++

			curr = min
		}

		if curr.priority <= f.mMin.priority {
			f.mMin = curr
		}
	}

	return minElem
}
