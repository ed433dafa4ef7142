// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// PieChart lays out a pie chart as a scatter: every row becomes a point
// inside its segment's wedge of the unit disc. Segment sizes follow the
// value proportions of the color column, largest first. The color values
// are relabeled "<index> - <value> (<percentage>)" so the legend carries
// the proportions, and rows are sorted by that label.
func PieChart(tbl *table.Table, color, media string, opts Options) (*table.Table, *plot.Config, error) {
	if err := checkReserved(tbl, "pie_chart_x", "pie_chart_y"); err != nil {
		return nil, nil, err
	}

	values, err := stringColumn(tbl, color)
	if err != nil {
		return nil, nil, err
	}
	total := float64(len(values))
	counts := valueCounts(values)
	indices := groupIndices(values)

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	labels := make([]string, len(values))
	start := 0.0
	for segment, vc := range counts {
		ratio := float64(vc.count) / total
		label := fmt.Sprintf("%d - %s (%.1f%%)", segment, vc.value, ratio*100)
		for _, idx := range indices[vc.value] {
			// sqrt keeps the points uniformly distributed over the disc.
			radius := math.Sqrt(rand.Float64())
			theta := 2 * math.Pi * (start + ratio*rand.Float64())
			xs[idx] = radius * math.Cos(theta)
			ys[idx] = radius * math.Sin(theta)
			labels[idx] = label
		}
		start += ratio
	}

	out := table.NewBuilder(tbl).
		Add(color, labels).
		Add("pie_chart_x", xs).
		Add("pie_chart_y", ys).
		Done()
	out = sortTableByStrings(out, color)

	opts.Color = color
	opts.ColorContinuous = false
	cfg := &plot.Config{
		Type:    plot.KindPieChart,
		Media:   media,
		X:       plot.StringPtr("pie_chart_x"),
		Y:       plot.StringPtr("pie_chart_y"),
		Columns: columnsForDB(out, media, plot.KindPieChart, "pie_chart_x", "pie_chart_y"),
	}
	opts.apply(cfg)
	if err := plot.Validate(out, cfg); err != nil {
		return nil, nil, err
	}
	return out, cfg, nil
}

// sortTableByStrings reorders all rows by one string column, ascending.
func sortTableByStrings(tbl *table.Table, key string) *table.Table {
	keys := tbl.MustColumn(key).([]string)
	n := tbl.Len()

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sortPermByStrings(perm, keys)

	return applyPermutation(tbl, perm)
}
