// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Required CSV header columns.
const (
	columnID     = "movieId"
	columnTitle  = "title"
	columnGenres = "genres"
)

// CSVLoader reads a movies CSV whose header names movieId, title and genres
// columns, in any order. Extra columns are ignored.
type CSVLoader struct {
	path string
}

// NewCSVLoader returns a loader for the file at path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load reads every row. Errors name the offending line.
func (l *CSVLoader) Load(ctx context.Context) ([]recommend.Item, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", l.path, err)
	}
	defer f.Close()

	items, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", l.path, err)
	}
	return items, nil
}

// ReadCSV parses catalog rows from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]recommend.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	var items []recommend.Item
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err // *csv.ParseError already carries the line
		}

		line, _ := reader.FieldPos(0)
		item, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// columnIndex holds the positions of the required columns.
type columnIndex struct {
	id, title, genres int
}

func headerColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		// Excel exports prefix the first header with a byte order mark.
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := pos[name]; !seen {
			pos[name] = i
		}
	}

	var cols columnIndex
	var missing []string
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{columnID, &cols.id},
		{columnTitle, &cols.title},
		{columnGenres, &cols.genres},
	} {
		i, ok := pos[c.name]
		if !ok {
			missing = append(missing, c.name)
			continue
		}
		*c.dst = i
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("line 1: header missing column(s) %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndex, line int) (recommend.Item, error) {
	field := func(i int) (string, error) {
		if i >= len(record) {
			return "", fmt.Errorf("line %d: expected at least %d fields, got %d", line, i+1, len(record))
		}
		return record[i], nil
	}

	rawID, err := field(cols.id)
	if err != nil {
		return recommend.Item{}, err
	}
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return recommend.Item{}, fmt.Errorf("line %d: invalid movieId %q", line, rawID)
	}

	title, err := field(cols.title)
	if err != nil {
		return recommend.Item{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return recommend.Item{}, fmt.Errorf("line %d: empty title", line)
	}

	genres, err := field(cols.genres)
	if err != nil {
		return recommend.Item{}, err
	}

	return recommend.Item{ID: id, Name: title, Tags: ParseGenres(genres)}, nil
}
