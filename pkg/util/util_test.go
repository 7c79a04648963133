package util

import (
	"testing"
)

func TestQuickSort(t *testing.T) {

	arr := []float64{4.2, 3.1, 2.0, 1.5, 10, 5555, -1, 20, 100, -100}
	arr = QuickSortG(arr, func(a, b float64) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		} else {
			return 0
		}
	})

	for i := 0; i < len(arr); i++ {
		if i == 0 {
			continue
		}
		if arr[i] < arr[i-1] {
			t.Errorf("Error in sorting")
		}
	}
}

func TestRoundFloat(t *testing.T) {
	if got := RoundFloat(31.4999, 2); got != 31.5 {
		t.Errorf("expected 31.5, got %f", got)
	}
	if got := RoundFloat(10.004, 2); got != 10.0 {
		t.Errorf("expected 10.0, got %f", got)
	}
}

func TestReverseG(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	rev := ReverseG(arr)
	for i := range rev {
		if rev[i] != arr[len(arr)-1-i] {
			t.Errorf("expected reversed slice, got %v", rev)
		}
	}
	if arr[0] != 1 {
		t.Errorf("ReverseG must not mutate its input")
	}
}
