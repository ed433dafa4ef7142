// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"math/rand"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/clusterview/clusterview/plot"
)

// Violin lays out a violin plot of one numeric column. Each row gets a
// horizontal jitter proportional to the kernel density estimate at its y
// value, so the point cloud traces the distribution's shape. Color groups
// are laid out side by side, two units apart.
func Violin(tbl *table.Table, y, media string, opts Options) (*table.Table, *plot.Config, error) {
	if err := checkReserved(tbl, "x"); err != nil {
		return nil, nil, err
	}

	ys, err := floatColumn(tbl, y)
	if err != nil {
		return nil, nil, err
	}

	xs := make([]float64, len(ys))
	if opts.Color == "" {
		copy(xs, violinJitter(ys))
	} else {
		groups, err := stringColumn(tbl, opts.Color)
		if err != nil {
			return nil, nil, err
		}
		for groupIdx, value := range distinctInOrder(groups) {
			indices := groupIndices(groups)[value]
			groupYs := make([]float64, len(indices))
			for i, idx := range indices {
				groupYs[i] = ys[idx]
			}
			offset := float64(groupIdx * 2)
			for i, jitter := range violinJitter(groupYs) {
				xs[indices[i]] = jitter + offset
			}
		}
	}

	out := table.NewBuilder(tbl).Add("x", xs).Done()
	cfg := &plot.Config{
		Type:    plot.KindViolin,
		Media:   media,
		X:       plot.StringPtr("x"),
		Y:       plot.StringPtr(y),
		Columns: columnsForDB(out, media, plot.KindViolin, y, "x"),
	}
	opts.apply(cfg)
	if err := plot.Validate(out, cfg); err != nil {
		return nil, nil, err
	}
	return out, cfg, nil
}

// violinJitter computes per-point jitter in [-0.5, 0.5) scaled by the
// normalized density at the point.
func violinJitter(ys []float64) []float64 {
	if len(ys) == 0 {
		return nil
	}
	sample := stats.Sample{Xs: ys}
	kde := stats.KDE{
		Sample:    sample,
		Bandwidth: stats.BandwidthScott(sample),
	}

	weights := make([]float64, len(ys))
	maxWeight := 0.0
	for i, y := range ys {
		weights[i] = kde.PDF(y)
		if weights[i] > maxWeight {
			maxWeight = weights[i]
		}
	}

	out := make([]float64, len(ys))
	for i := range out {
		w := 0.0
		if maxWeight > 0 {
			w = weights[i] / maxWeight
		}
		out[i] = (rand.Float64() - 0.5) * w
	}
	return out
}
