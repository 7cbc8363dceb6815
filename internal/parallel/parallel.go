// Package parallel provides a small helper for running independent work
// items across a bounded number of goroutines.
package parallel

import "sync"

// ForEach executes f(i) for every i in [0, n) using at most workers
// goroutines. With workers <= 1 the items run sequentially in order; with
// more, completion order is unspecified and f must be safe to call
// concurrently. ForEach returns once every item has finished.
func ForEach(n, workers int, f func(i int)) {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	items := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range items {
				f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		items <- i
	}
	close(items)
	wg.Wait()
}
