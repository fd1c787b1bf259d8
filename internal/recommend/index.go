// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
	"time"
)

// Index is the precomputed similarity space over a catalog.
//
// All fields are written by BuildIndex and never again; accessors return
// copies of slices so callers cannot mutate the index.
type Index struct {
	items      []Item
	vocabulary []string
	columns    map[string]int
	idf        []float64

	// vectors[i] is the L2-normalized TF-IDF vector of items[i].
	vectors [][]float64

	// terms[i] lists the non-zero columns of vectors[i] in ascending order.
	terms [][]int

	// similarity is the n*n matrix in row-major order.
	similarity []float64

	builtAt       time.Time
	buildDuration time.Duration
}

// BuildIndex vectorizes items and computes the full similarity matrix.
// Item order is significant: it fixes vocabulary column order and the
// tie-break order used by Engine.Recommend.
func BuildIndex(items []Item) (*Index, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	start := time.Now()

	idx := &Index{items: cloneItems(items)}
	idx.buildVocabulary()

	counts := idx.termCounts()
	idx.computeIDF(counts)
	idx.computeVectors(counts)
	idx.computeSimilarity()

	idx.builtAt = time.Now()
	idx.buildDuration = idx.builtAt.Sub(start)
	return idx, nil
}

// buildVocabulary assigns each distinct tag a column in first-seen order.
func (idx *Index) buildVocabulary() {
	idx.columns = make(map[string]int)
	for i := range idx.items {
		for _, tag := range idx.items[i].Tags {
			if _, ok := idx.columns[tag]; ok {
				continue
			}
			idx.columns[tag] = len(idx.vocabulary)
			idx.vocabulary = append(idx.vocabulary, tag)
		}
	}
}

// termCounts returns, per item, the occurrence count of each column.
func (idx *Index) termCounts() []map[int]int {
	counts := make([]map[int]int, len(idx.items))
	for i := range idx.items {
		c := make(map[int]int, len(idx.items[i].Tags))
		for _, tag := range idx.items[i].Tags {
			c[idx.columns[tag]]++
		}
		counts[i] = c
	}
	return counts
}

// computeIDF applies smoothed IDF. df >= 1 for every column by construction.
func (idx *Index) computeIDF(counts []map[int]int) {
	df := make([]int, len(idx.vocabulary))
	for _, c := range counts {
		for col := range c {
			df[col]++
		}
	}

	n := float64(len(idx.items))
	idx.idf = make([]float64, len(idx.vocabulary))
	for col, d := range df {
		idx.idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}
}

// computeVectors builds the normalized TF-IDF vectors. An item without tags
// keeps the zero vector.
func (idx *Index) computeVectors(counts []map[int]int) {
	dim := len(idx.vocabulary)
	idx.vectors = make([][]float64, len(idx.items))
	idx.terms = make([][]int, len(idx.items))

	for i, c := range counts {
		vec := make([]float64, dim)
		cols := make([]int, 0, len(c))
		for col, tf := range c {
			vec[col] = float64(tf) * idx.idf[col]
			cols = append(cols, col)
		}
		sort.Ints(cols)

		var norm float64
		for _, col := range cols {
			norm += vec[col] * vec[col]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for _, col := range cols {
				vec[col] /= norm
			}
		}

		idx.vectors[i] = vec
		idx.terms[i] = cols
	}
}

// computeSimilarity fills the matrix once per unordered pair and mirrors
// the value, so similarity(i, j) and similarity(j, i) are the same float.
func (idx *Index) computeSimilarity() {
	n := len(idx.items)
	idx.similarity = make([]float64, n*n)

	for i := 0; i < n; i++ {
		if len(idx.terms[i]) > 0 {
			idx.similarity[i*n+i] = 1
		}
		for j := i + 1; j < n; j++ {
			s := idx.dot(i, j)
			idx.similarity[i*n+j] = s
			idx.similarity[j*n+i] = s
		}
	}
}

// dot returns the dot product of two item vectors, clamped to [0, 1]
// against rounding on identical tag sets.
func (idx *Index) dot(i, j int) float64 {
	a, b := i, j
	if len(idx.terms[b]) < len(idx.terms[a]) {
		a, b = b, a
	}
	va, vb := idx.vectors[a], idx.vectors[b]

	var s float64
	for _, col := range idx.terms[a] {
		s += va[col] * vb[col]
	}
	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Item returns the item at catalog position i.
func (idx *Index) Item(i int) Item {
	return cloneItem(idx.items[i])
}

// Items returns a copy of the catalog in index order.
func (idx *Index) Items() []Item {
	return cloneItems(idx.items)
}

// Vocabulary returns the tags in column order.
func (idx *Index) Vocabulary() []string {
	out := make([]string, len(idx.vocabulary))
	copy(out, idx.vocabulary)
	return out
}

// IDF returns the inverse document frequency of tag, or 0 if the tag is not
// in the vocabulary.
func (idx *Index) IDF(tag string) float64 {
	col, ok := idx.columns[tag]
	if !ok {
		return 0
	}
	return idx.idf[col]
}

// Vector returns a copy of item i's normalized feature vector.
func (idx *Index) Vector(i int) []float64 {
	out := make([]float64, len(idx.vectors[i]))
	copy(out, idx.vectors[i])
	return out
}

// Similarity returns the cosine similarity between items i and j.
func (idx *Index) Similarity(i, j int) float64 {
	return idx.similarity[i*len(idx.items)+j]
}

// row returns item i's similarity row without copying. Internal use only.
func (idx *Index) row(i int) []float64 {
	n := len(idx.items)
	return idx.similarity[i*n : (i+1)*n]
}

// BuiltAt returns when the build finished.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// BuildDuration returns how long BuildIndex took.
func (idx *Index) BuildDuration() time.Duration {
	return idx.buildDuration
}

func cloneItem(it Item) Item {
	tags := make([]string, len(it.Tags))
	copy(tags, it.Tags)
	it.Tags = tags
	return it
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = cloneItem(items[i])
	}
	return out
}
