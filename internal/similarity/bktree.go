// Package similarity provides fuzzy word lookup using a BK-tree, plus a
// linear scanner with the same query contract used as a reference.
package similarity

import (
	"sort"

	"bkspell/internal/distance"
)

// DefaultTolerance is the tolerance used by Suggest.
const DefaultTolerance = 2

// BKTree is a BK-tree for similarity search using edit distance.
// BK-trees are space-partitioning data structures for metric spaces,
// particularly useful for spelling correction and fuzzy matching.
//
// The tree is not safe for concurrent mutation. Build it first; once
// inserts stop, any number of goroutines may query it.
type BKTree struct {
	root     *bkNode
	size     int
	distance distance.Func
}

// bkNode represents a node in the BK-tree. Children are kept sorted by
// their distance to this node, one child per distance.
type bkNode struct {
	word     string
	children []bkEdge
}

type bkEdge struct {
	dist int
	node *bkNode
}

// child returns the child at dist, or the position where one would be
// inserted.
func (n *bkNode) child(dist int) (*bkNode, int) {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].dist >= dist
	})
	if i < len(n.children) && n.children[i].dist == dist {
		return n.children[i].node, i
	}
	return nil, i
}

func (n *bkNode) attach(at, dist int, word string) {
	n.children = append(n.children, bkEdge{})
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = bkEdge{dist: dist, node: &bkNode{word: word}}
}

// NewBKTree creates a new empty BK-tree using Levenshtein distance.
func NewBKTree() *BKTree {
	return NewBKTreeWithMetric(distance.Levenshtein)
}

// NewBKTreeWithMetric creates a new empty BK-tree using fn as its metric.
func NewBKTreeWithMetric(fn distance.Func) *BKTree {
	if fn == nil {
		fn = distance.Levenshtein
	}
	return &BKTree{distance: fn}
}

// Insert adds a word to the tree. Inserting a word that is already
// present is a no-op. The empty string is a valid word.
func (t *BKTree) Insert(word string) {
	if t.root == nil {
		t.root = &bkNode{word: word}
		t.size++
		return
	}

	current := t.root
	for {
		dist := t.distance(word, current.word)
		if dist == 0 {
			return // Word already exists
		}

		child, at := current.child(dist)
		if child == nil {
			current.attach(at, dist, word)
			t.size++
			return
		}
		current = child
	}
}

// InsertAll adds multiple words to the tree, in order.
func (t *BKTree) InsertAll(words []string) {
	for _, word := range words {
		t.Insert(word)
	}
}

// Exists reports whether word is stored in the tree. An empty tree
// contains nothing.
func (t *BKTree) Exists(word string) bool {
	current := t.root
	for current != nil {
		dist := t.distance(word, current.word)
		if dist == 0 {
			return true
		}
		current, _ = current.child(dist)
	}
	return false
}

// FindSuggestions returns every stored word whose distance to word is
// strictly less than tolerance. Words are returned in pre-order: a node
// before its children, children by ascending distance key.
func (t *BKTree) FindSuggestions(word string, tolerance int) []string {
	suggestions := []string{}
	t.walk(word, tolerance, func(w string, _ int) {
		suggestions = append(suggestions, w)
	})
	return suggestions
}

// Suggest is FindSuggestions with DefaultTolerance.
func (t *BKTree) Suggest(word string) []string {
	return t.FindSuggestions(word, DefaultTolerance)
}

// Search is FindSuggestions with each match's distance attached.
func (t *BKTree) Search(query string, tolerance int) []SearchResult {
	results := []SearchResult{}
	t.walk(query, tolerance, func(w string, dist int) {
		results = append(results, SearchResult{Word: w, Distance: dist})
	})
	return results
}

func (t *BKTree) walk(query string, tolerance int, visit func(word string, dist int)) {
	if t.root == nil {
		return
	}
	t.searchNode(t.root, query, tolerance, visit)
}

// searchNode recursively searches the tree.
func (t *BKTree) searchNode(node *bkNode, query string, tolerance int, visit func(string, int)) {
	dist := t.distance(query, node.word)

	if dist < tolerance {
		visit(node.word, dist)
	}

	// A descendant under key k matching the query satisfies
	// |dist - k| <= tolerance by the triangle inequality.
	minDist := dist - tolerance
	maxDist := dist + tolerance

	_, from := node.child(minDist)
	for _, edge := range node.children[from:] {
		if edge.dist > maxDist {
			break
		}
		t.searchNode(edge.node, query, tolerance, visit)
	}
}

// Size returns the number of words in the tree.
func (t *BKTree) Size() int {
	return t.size
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func (t *BKTree) Depth() int {
	if t.root == nil {
		return 0
	}

	type frame struct {
		node  *bkNode
		depth int
	}

	deepest := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > deepest {
			deepest = f.depth
		}
		for _, edge := range f.node.children {
			stack = append(stack, frame{edge.node, f.depth + 1})
		}
	}
	return deepest
}
