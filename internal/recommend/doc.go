// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements content-based movie similarity.
//
// # Architecture
//
// The package has three parts, used in this order:
//
//   - Index: a TF-IDF vector space over item tags plus a dense cosine
//     similarity matrix, built once by BuildIndex
//   - Engine: top-K nearest neighbour queries by display name over an Index
//   - Slot: the single publication point that hands the built Engine to
//     request handlers and reports readiness
//
// # Weighting
//
// Each tag t gets the smoothed inverse document frequency
//
//	idf(t) = ln((1 + N) / (1 + df(t))) + 1
//
// where N is the catalog size and df(t) the number of items carrying t.
// An item's vector is tf(t) * idf(t) per vocabulary column, L2-normalized,
// so the similarity of two items is the dot product of their vectors.
//
// # Usage
//
//	idx, err := recommend.BuildIndex(items)
//	if err != nil {
//	    return err // recommend.ErrEmptyCatalog for an empty catalog
//	}
//	engine := recommend.NewEngine(idx)
//
//	recs, err := engine.Recommend("Toy Story", 5)
//	var notFound *recommend.ItemNotFoundError
//	if errors.As(err, &notFound) {
//	    // unknown title
//	}
//
// # Thread Safety
//
// Index and Engine are immutable once constructed. Recommend takes no locks
// and is safe for any number of concurrent callers.
package recommend
