package similarity

import "bkspell/internal/distance"

// Scanner answers the same queries as BKTree by comparing the query with
// every stored word. It is the correctness and timing baseline for the
// tree.
type Scanner struct {
	words    []string
	distance distance.Func
}

// NewScanner creates an empty scanner using Levenshtein distance.
func NewScanner() *Scanner {
	return NewScannerWithMetric(distance.Levenshtein)
}

// NewScannerWithMetric creates an empty scanner using fn as its metric.
func NewScannerWithMetric(fn distance.Func) *Scanner {
	if fn == nil {
		fn = distance.Levenshtein
	}
	return &Scanner{distance: fn}
}

// Append adds word to the end of the stored sequence. Duplicates are kept.
func (s *Scanner) Append(word string) {
	s.words = append(s.words, word)
}

// AppendAll appends words in order.
func (s *Scanner) AppendAll(words []string) {
	s.words = append(s.words, words...)
}

// Len returns the number of stored words, duplicates included.
func (s *Scanner) Len() int {
	return len(s.words)
}

// FindSuggestions returns, in stored order, every word whose distance to
// word is strictly less than tolerance. Each call builds a new slice.
func (s *Scanner) FindSuggestions(word string, tolerance int) []string {
	suggestions := []string{}
	for _, item := range s.words {
		if s.distance(word, item) < tolerance {
			suggestions = append(suggestions, item)
		}
	}
	return suggestions
}

// Search is FindSuggestions with each match's distance attached.
func (s *Scanner) Search(query string, tolerance int) []SearchResult {
	results := []SearchResult{}
	for _, item := range s.words {
		if dist := s.distance(query, item); dist < tolerance {
			results = append(results, SearchResult{Word: item, Distance: dist})
		}
	}
	return results
}
