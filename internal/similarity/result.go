package similarity

import "sort"

// SearchResult holds a search result with its distance.
type SearchResult struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// Suggester answers tolerance queries. BKTree and Scanner both implement
// it and return the same set of words for the same dictionary.
type Suggester interface {
	FindSuggestions(word string, tolerance int) []string
	Search(query string, tolerance int) []SearchResult
}

var (
	_ Suggester = (*BKTree)(nil)
	_ Suggester = (*Scanner)(nil)
)

// SortResults sorts by distance, then alphabetically.
func SortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Word < results[j].Word
	})
}

// Words extracts the words from results, keeping their order.
func Words(results []SearchResult) []string {
	words := make([]string, len(results))
	for i, r := range results {
		words[i] = r.Word
	}
	return words
}

// Diff compares two result sets ignoring order and duplicates. missing
// holds words only in want, extra words only in got; both are sorted.
func Diff(got, want []string) (missing, extra []string) {
	inGot := make(map[string]bool, len(got))
	for _, w := range got {
		inGot[w] = true
	}
	inWant := make(map[string]bool, len(want))
	for _, w := range want {
		inWant[w] = true
	}

	for w := range inWant {
		if !inGot[w] {
			missing = append(missing, w)
		}
	}
	for w := range inGot {
		if !inWant[w] {
			extra = append(extra, w)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}
