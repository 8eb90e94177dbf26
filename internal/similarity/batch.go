package similarity

import (
	"context"
	"sync"
)

// BatchResult holds the answer to one query of a batch.
type BatchResult struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SuggestBatch runs Search for every query against s using a pool of
// workers. Results are returned in query order. s must not be mutated
// while the batch runs.
//
// When ctx is cancelled no further queries are started; the returned
// slice then holds only the finished queries (others have a nil Results)
// and the error is ctx.Err().
func SuggestBatch(ctx context.Context, s Suggester, queries []string, tolerance, workers int) ([]BatchResult, error) {
	results := make([]BatchResult, len(queries))
	for i, q := range queries {
		results[i].Query = q
	}

	if workers <= 1 {
		// Sequential processing
		for i, q := range queries {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			results[i].Results = s.Search(q, tolerance)
		}
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker owns distinct indexes, no locking needed.
				results[i].Results = s.Search(queries[i], tolerance)
			}
		}()
	}

	var err error
send:
	for i := range queries {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break send
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, err
}
