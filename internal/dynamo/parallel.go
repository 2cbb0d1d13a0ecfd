package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor executes fn over [0, n) split into contiguous chunks of at
// least minChunk items, one goroutine per chunk. fn must only write to
// indices inside its own chunk.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	workers := min(runtime.GOMAXPROCS(0), n/max(minChunk, 1))
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, min(start+chunk, n))
	}
	wg.Wait()
}
