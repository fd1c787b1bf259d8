// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"
	"strings"
)

// Engine answers similarity queries over a built Index.
type Engine struct {
	index *Index

	// byName maps the lower-cased display name to the first catalog position
	// carrying it.
	byName map[string]int
}

// NewEngine wraps idx for querying. idx must come from BuildIndex.
func NewEngine(idx *Index) *Engine {
	byName := make(map[string]int, idx.Len())
	for i := range idx.items {
		key := normalizeName(idx.items[i].Name)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}
	return &Engine{index: idx, byName: byName}
}

// Index returns the underlying index.
func (e *Engine) Index() *Index {
	return e.index
}

// Len returns the catalog size.
func (e *Engine) Len() int {
	return e.index.Len()
}

// Recommend returns up to k items most similar to the named item, best
// first. Equal scores keep catalog order. The named item is never part of
// its own result.
func (e *Engine) Recommend(name string, k int) ([]Recommendation, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	i, err := e.position(name)
	if err != nil {
		return nil, err
	}

	row := e.index.row(i)
	candidates := make([]int, 0, len(row)-1)
	for j := range row {
		if j != i {
			candidates = append(candidates, j)
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		sa, sb := row[candidates[a]], row[candidates[b]]
		if sa != sb {
			return sa > sb
		}
		return candidates[a] < candidates[b]
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	recs := make([]Recommendation, len(candidates))
	for n, j := range candidates {
		recs[n] = Recommendation{
			Name:  e.index.items[j].Name,
			Score: row[j],
		}
	}
	return recs, nil
}

// Lookup returns the catalog item matching name, ignoring case.
func (e *Engine) Lookup(name string) (Item, error) {
	i, err := e.position(name)
	if err != nil {
		return Item{}, err
	}
	return e.index.Item(i), nil
}

// Titles returns every display name in catalog order.
func (e *Engine) Titles() []string {
	titles := make([]string, len(e.index.items))
	for i := range e.index.items {
		titles[i] = e.index.items[i].Name
	}
	return titles
}

func (e *Engine) position(name string) (int, error) {
	i, ok := e.byName[normalizeName(name)]
	if !ok {
		return 0, &ItemNotFoundError{Name: name}
	}
	return i, nil
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}
