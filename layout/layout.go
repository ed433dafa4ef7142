// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package layout turns tabular datasets into point layouts for the
// supported visualization kinds.
//
// Each constructor takes a data table plus the relevant column names,
// synthesizes any coordinate columns the kind needs (histogram dot
// stacking, violin jitter, pie discs) and returns the augmented table
// together with the view Config describing it. The result is handed to
// the storage layer for persistence.
package layout

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// Options carries the optional arguments shared by the layout
// constructors.
type Options struct {
	// Color is the column used for coloring points.
	Color string

	// ColorContinuous switches the color column from per-value series to
	// a continuous scale.
	ColorContinuous bool

	// BoundingBox is the column holding box annotations.
	BoundingBox string

	// Title is the plot title.
	Title string

	// Display lists extra columns to show alongside the media.
	Display []string
}

func (o Options) apply(cfg *plot.Config) {
	cfg.Color = plot.StringPtr(o.Color)
	cfg.ColorIsCategorical = o.Color != "" && !o.ColorContinuous
	cfg.BoundingBox = plot.StringPtr(o.BoundingBox)
	cfg.Title = plot.StringPtr(o.Title)
	cfg.Display = o.Display
	cfg.SaveMethod = "local"
}

// columnsForDB determines the database column order: id and media first,
// then the axis columns, then everything else. The name "index" is
// reserved and dropped.
func columnsForDB(tbl *table.Table, media string, kind plot.Kind, x, y string) []string {
	columns := []string{"id", media}
	skip := map[string]bool{"id": true, media: true}
	if kind != plot.KindGrid {
		if x != "" {
			columns = append(columns, x)
			skip[x] = true
		}
		if y != "" {
			columns = append(columns, y)
			skip[y] = true
		}
	}
	for _, c := range tbl.Columns() {
		if !skip[c] && c != "index" {
			columns = append(columns, c)
		}
	}
	return columns
}

// checkReserved rejects tables that already carry a synthesized column.
func checkReserved(tbl *table.Table, names ...string) error {
	for _, c := range tbl.Columns() {
		for _, name := range names {
			if c == name {
				return fmt.Errorf("column %q is reserved and must not appear in the input dataframe", name)
			}
		}
	}
	return nil
}

// floatColumn extracts a column as float64 values, converting integer
// columns along the way.
func floatColumn(tbl *table.Table, name string) ([]float64, error) {
	col := tbl.Column(name)
	if col == nil {
		return nil, fmt.Errorf("%q: %w", name, plot.ErrColumnNotFound)
	}
	rv := reflect.ValueOf(col)
	out := make([]float64, rv.Len())
	for i := range out {
		v := rv.Index(i)
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			out[i] = v.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out[i] = float64(v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out[i] = float64(v.Uint())
		default:
			return nil, fmt.Errorf("column %q is not numeric", name)
		}
	}
	return out, nil
}

// stringColumn extracts a column as strings, printing non-string values.
func stringColumn(tbl *table.Table, name string) ([]string, error) {
	col := tbl.Column(name)
	if col == nil {
		return nil, fmt.Errorf("%q: %w", name, plot.ErrColumnNotFound)
	}
	if ss, ok := col.([]string); ok {
		return ss, nil
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out, nil
}

// valueCount is one distinct value with its occurrence count.
type valueCount struct {
	value string
	count int
}

// valueCounts returns the distinct values ordered by descending count,
// ties in order of first appearance.
func valueCounts(values []string) []valueCount {
	counts := map[string]int{}
	order := []string{}
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]valueCount, len(order))
	for i, v := range order {
		out[i] = valueCount{value: v, count: counts[v]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	return out
}

// distinctInOrder returns the distinct values in order of first
// appearance.
func distinctInOrder(values []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// sortTable reorders all rows of a table by the given float64 key
// columns, ascending.
func sortTable(tbl *table.Table, keys ...string) *table.Table {
	n := tbl.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	keyCols := make([][]float64, len(keys))
	for i, k := range keys {
		keyCols[i] = tbl.MustColumn(k).([]float64)
	}
	sort.SliceStable(perm, func(a, b int) bool {
		for _, col := range keyCols {
			if col[perm[a]] != col[perm[b]] {
				return col[perm[a]] < col[perm[b]]
			}
		}
		return false
	})

	return applyPermutation(tbl, perm)
}

// sortPermByStrings sorts a permutation by the referenced string keys.
func sortPermByStrings(perm []int, keys []string) {
	sort.SliceStable(perm, func(a, b int) bool { return keys[perm[a]] < keys[perm[b]] })
}

// applyPermutation rebuilds a table with its rows in permutation order.
func applyPermutation(tbl *table.Table, perm []int) *table.Table {
	b := new(table.Builder)
	for _, name := range tbl.Columns() {
		col := reflect.ValueOf(tbl.Column(name))
		sorted := reflect.MakeSlice(col.Type(), len(perm), len(perm))
		for i, p := range perm {
			sorted.Index(i).Set(col.Index(p))
		}
		b.Add(name, sorted.Interface())
	}
	return b.Done()
}

// groupIndices returns, per distinct group value, the row indices
// carrying it.
func groupIndices(values []string) map[string][]int {
	out := map[string][]int{}
	for i, v := range values {
		out[v] = append(out[v], i)
	}
	return out
}

func uniform(low, high float64) float64 {
	return low + rand.Float64()*(high-low)
}
