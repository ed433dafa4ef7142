// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// DefaultHistogramBins is the bin count used when none is given.
const DefaultHistogramBins = 20

// Histogram lays out a dot histogram: every row becomes one dot at its x
// value, stacked upward within its bin. With a categorical color column
// the stacking happens per color group so the groups overlay.
func Histogram(tbl *table.Table, x, media string, bins int, opts Options) (*table.Table, *plot.Config, error) {
	if err := checkReserved(tbl, "_x", "_y"); err != nil {
		return nil, nil, err
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	xs, err := floatColumn(tbl, x)
	if err != nil {
		return nil, nil, err
	}

	ys := make([]float64, len(xs))
	if opts.Color != "" && !opts.ColorContinuous {
		groups, err := stringColumn(tbl, opts.Color)
		if err != nil {
			return nil, nil, err
		}
		for _, indices := range groupIndices(groups) {
			groupXs := make([]float64, len(indices))
			for i, idx := range indices {
				groupXs[i] = xs[idx]
			}
			for i, y := range dotHeights(groupXs, bins) {
				ys[indices[i]] = y
			}
		}
	} else {
		ys = dotHeights(xs, bins)
	}

	out := table.NewBuilder(tbl).Add("_y", ys).Done()
	cfg := &plot.Config{
		Type:    plot.KindHistogram,
		Media:   media,
		X:       plot.StringPtr(x),
		Y:       plot.StringPtr("_y"),
		Columns: columnsForDB(out, media, plot.KindHistogram, x, "_y"),
	}
	opts.apply(cfg)
	if err := plot.Validate(out, cfg); err != nil {
		return nil, nil, err
	}
	return out, cfg, nil
}

// dotHeights computes, per value in order, its running count within its
// bin. Bins divide the value range evenly; the last bin edge is pinned to
// the maximum so it stays inclusive.
func dotHeights(data []float64, bins int) []float64 {
	if len(data) == 0 {
		return nil
	}
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = min + float64(i)*(max-min)/float64(bins)
	}
	edges[bins] = max

	counts := make([]int, bins)
	heights := make([]float64, len(data))
	for i, v := range data {
		for b := 0; b < bins; b++ {
			if edges[b] <= v && v <= edges[b+1] {
				counts[b]++
				heights[i] = float64(counts[b])
				break
			}
		}
	}
	return heights
}
