// Package parallel provides goroutine fan-out helpers for the CPU backend.
package parallel

import (
	"runtime"
	"sync"
)

// minChunk is the smallest per-goroutine workload worth the scheduling
// overhead. Loops shorter than this run sequentially.
const minChunk = 64

// For executes f(i) for i in [0, n), splitting the range across
// GOMAXPROCS goroutines when the range is large enough.
//
// f must be safe to call concurrently for distinct i.
func For(n int, f func(i int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers <= 1 || n < minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
