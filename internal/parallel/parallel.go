package parallel

import (
	"runtime"
	"sync"
)

// Rows calls fn once for every row in [0, height), splitting the range
// into contiguous chunks and running one chunk per goroutine. It
// returns after the last row has been processed.
//
// fn must be safe to call concurrently for distinct rows. Chunks are
// contiguous so each worker walks memory in order, and a worker never
// shares a row with another, which keeps read-modify-write shading
// loops race free without locks.
func Rows(height int, fn func(y int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	chunk := (height + workers - 1) / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > height {
			hi = height
		}
		go func(lo, hi int) {
			defer wg.Done()
			for y := lo; y < hi; y++ {
				fn(y)
			}
		}(lo, hi)
	}
	wg.Wait()
}
