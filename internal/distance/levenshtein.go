// Package distance provides the edit-distance metric used by the index
// and the linear scanner.
package distance

import "sync/atomic"

// Func computes a distance between two strings. Implementations must be
// symmetric, non-negative, zero only for equal inputs and satisfy the
// triangle inequality, otherwise BK-tree pruning drops valid matches.
type Func func(a, b string) int

// Levenshtein returns the minimum number of single-character insertions,
// deletions and substitutions needed to turn a into b. Characters are
// runes; no weighting or normalization is applied.
func Levenshtein(a, b string) int {
	r1 := []rune(a)
	r2 := []rune(b)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	d := fill(r1, r2)
	return d[len(r1)][len(r2)]
}

// Table returns the full (n+1)x(m+1) dynamic-programming table for a and
// b. The bottom-right cell equals Levenshtein(a, b).
func Table(a, b string) [][]int {
	return fill([]rune(a), []rune(b))
}

func fill(r1, r2 []rune) [][]int {
	n := len(r1)
	m := len(r2)

	d := make([][]int, n+1)
	cells := make([]int, (n+1)*(m+1))
	for i := range d {
		d[i] = cells[i*(m+1) : (i+1)*(m+1)]
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}

			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d
}

// Counter wraps a Func and counts how many times it is called. It is safe
// for use from concurrent read-only queries.
type Counter struct {
	fn    Func
	calls atomic.Int64
}

// NewCounter returns a Counter around fn. A nil fn means Levenshtein.
func NewCounter(fn Func) *Counter {
	if fn == nil {
		fn = Levenshtein
	}
	return &Counter{fn: fn}
}

// Func returns the counting metric.
func (c *Counter) Func() Func {
	return func(a, b string) int {
		c.calls.Add(1)
		return c.fn(a, b)
	}
}

// Calls returns the number of distance computations so far.
func (c *Counter) Calls() int64 {
	return c.calls.Load()
}

// Reset zeroes the call count and returns the previous value.
func (c *Counter) Reset() int64 {
	return c.calls.Swap(0)
}
