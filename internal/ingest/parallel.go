package ingest

import (
	"sync"
)

// FileResult holds the result for a single dictionary file.
type FileResult struct {
	Path   string
	Result *Result
	Error  error
}

// ProgressCallback is called when a file finishes loading. Calls may come
// from several goroutines.
type ProgressCallback func(result *FileResult)

// LoadFiles loads several dictionary files using a pool of workers.
// Results are returned in the order of paths, so concatenating their
// words gives the same sequence as loading the files one by one.
func LoadFiles(paths []string, config Config, workers int, callback ProgressCallback) []*FileResult {
	results := make([]*FileResult, len(paths))

	if workers <= 1 || len(paths) <= 1 {
		// Sequential processing
		for i, path := range paths {
			results[i] = loadOne(path, config)
			if callback != nil {
				callback(results[i])
			}
		}
		return results
	}

	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = loadOne(paths[i], config)
				if callback != nil {
					callback(results[i])
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func loadOne(path string, config Config) *FileResult {
	result, err := LoadFile(path, config)
	return &FileResult{Path: path, Result: result, Error: err}
}

// Stats holds aggregate statistics over several loaded files.
type Stats struct {
	Files        int
	Successful   int
	Failed       int
	TotalRaw     int
	TotalWords   int
	TotalSkipped int
}

// Merge concatenates the words of successful results in order and
// aggregates their statistics. The first load error, if any, is returned
// alongside whatever did load.
func Merge(results []*FileResult) ([]string, *Stats, error) {
	stats := &Stats{Files: len(results)}

	var words []string
	var firstErr error
	for _, r := range results {
		if r.Error != nil {
			stats.Failed++
			if firstErr == nil {
				firstErr = r.Error
			}
			continue
		}
		stats.Successful++
		stats.TotalRaw += r.Result.TotalRaw
		stats.TotalSkipped += r.Result.TotalSkipped
		words = append(words, r.Result.Words...)
	}
	stats.TotalWords = len(words)

	return words, stats, firstErr
}
