/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: parallel.go
Description: Bounded worker pool for independent per-record work, used by the
structured per-record scorer (pkg/jsonscore). Adapted from the fuzzer's per-worker ID
and sync.WaitGroup shutdown shape, generalized here to a fixed-size pool of
goroutines draining a shared work queue and writing results into
index-addressed output slots so ordering and determinism survive §5's
parallelism allowance.
*/

package parallel

import (
	"runtime"
	"sync"
)

// Map applies fn to every element of in using up to workers goroutines,
// writing out[i] = fn(in[i]) for every i, then returns out. The relative
// order and content of the results is identical to a sequential loop;
// only the wall-clock schedule of the calls to fn is parallel. workers <= 1
// runs sequentially in the calling goroutine with no goroutines spawned.
func Map[T, R any](in []T, workers int, fn func(index int, item T) R) []R {
	n := len(in)
	out := make([]R, n)
	if n == 0 {
		return out
	}

	if workers <= 1 {
		for i, item := range in {
			out[i] = fn(i, item)
		}
		return out
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = fn(i, in[i])
			}
		}()
	}
	wg.Wait()

	return out
}

// DefaultWorkers returns a sensible pool size for CPU-bound per-record
// work: the number of logical CPUs, capped so tiny inputs don't spawn more
// goroutines than there is work to do.
func DefaultWorkers(itemCount int) int {
	w := runtime.NumCPU()
	if w < 1 {
		w = 1
	}
	if itemCount > 0 && w > itemCount {
		w = itemCount
	}
	return w
}
