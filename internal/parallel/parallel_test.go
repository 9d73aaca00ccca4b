package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForVisitsEveryIndex(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 1000, 4096} {
		visited := make([]int32, n)
		For(n, func(i int) {
			atomic.AddInt32(&visited[i], 1)
		})
		for i, v := range visited {
			if v != 1 {
				t.Fatalf("n=%d: index %d visited %d times, want 1", n, i, v)
			}
		}
	}
}

func TestForSmallRangeRunsSequentially(t *testing.T) {
	// Below the chunking threshold the order must be 0..n-1.
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	})
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestForTotalWork(t *testing.T) {
	var sum int64
	For(10000, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})
	want := int64(10000) * 9999 / 2
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
}
