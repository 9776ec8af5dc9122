package simulation

import (
	"runtime"
	"sync"
)

// gameJob is one chunk of consecutive games.
type gameJob struct {
	start, end int
}

// forEachGame runs fn on every game index using numWorkers workers. Games are
// handed out in chunks; fn must only touch its own game. The first error
// reported by any worker is returned after all workers finish.
func forEachGame(numGames, numWorkers int, fn func(i int) error) error {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numGames == 0 {
		return nil
	}
	chunk := numGames / (4 * numWorkers)
	if chunk < 1 {
		chunk = 1
	}

	jobs := make(chan gameJob, numGames/chunk+1)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	// Start workers
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				for i := job.start; i < job.end; i++ {
					if err := fn(i); err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						break
					}
				}
			}
		}()
	}

	for start := 0; start < numGames; start += chunk {
		end := start + chunk
		if end > numGames {
			end = numGames
		}
		jobs <- gameJob{start: start, end: end}
	}
	close(jobs)

	wg.Wait()
	return firstErr
}
