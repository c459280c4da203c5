package systems

import (
	"runtime"
	"sync"
)

// parallelFor runs fn(i) for every i in [0, n), chunked across
// runtime.GOMAXPROCS(0) workers with no cross-call communication, the way
// the teacher's game/parallel.go fans out per-entity work across workers
// and waits on a sync.WaitGroup before returning. Used by the stages that
// have no inter-segment dependency (§4.B, §4.C, §4.D, §4.E): each is a pure
// function of its own row.
func parallelFor(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	chunkSize := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			for i := i0; i < i1; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
