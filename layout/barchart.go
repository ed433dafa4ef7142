// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// barWidth is the fraction of each bar slot covered by points, leaving a
// visible gap between bars.
const barWidth = 0.7

// BarChart lays out one bar per distinct value of x, ordered by
// descending count. Every row becomes a point scattered uniformly inside
// its bar. With a categorical color column the bars stack per color.
func BarChart(tbl *table.Table, x, media string, opts Options) (*table.Table, *plot.Config, error) {
	if err := checkReserved(tbl, "_x", "_y"); err != nil {
		return nil, nil, err
	}

	values, err := stringColumn(tbl, x)
	if err != nil {
		return nil, nil, err
	}
	counts := valueCounts(values)
	indices := groupIndices(values)

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	if opts.Color != "" && !opts.ColorContinuous {
		colorValues, err := stringColumn(tbl, opts.Color)
		if err != nil {
			return nil, nil, err
		}
		for barIdx, vc := range counts {
			rows := indices[vc.value]
			barColors := make([]string, len(rows))
			for i, idx := range rows {
				barColors[i] = colorValues[idx]
			}
			stacked := 0.0
			for _, cc := range valueCounts(barColors) {
				for _, idx := range rows {
					if colorValues[idx] != cc.value {
						continue
					}
					xs[idx] = uniform(float64(barIdx), float64(barIdx)+barWidth)
					ys[idx] = uniform(stacked, stacked+float64(cc.count))
				}
				stacked += float64(cc.count)
			}
		}
	} else {
		for barIdx, vc := range counts {
			for _, idx := range indices[vc.value] {
				xs[idx] = uniform(float64(barIdx), float64(barIdx)+barWidth)
				ys[idx] = uniform(0, float64(vc.count))
			}
		}
	}

	xNames := make([]string, len(counts))
	for i, vc := range counts {
		xNames[i] = vc.value
	}

	out := table.NewBuilder(tbl).Add("_x", xs).Add("_y", ys).Done()
	cfg := &plot.Config{
		Type:    plot.KindBarChart,
		Media:   media,
		X:       plot.StringPtr("_x"),
		Y:       plot.StringPtr("_y"),
		XNames:  xNames,
		Columns: columnsForDB(out, media, plot.KindBarChart, "_y", "_x"),
	}
	opts.apply(cfg)
	if err := plot.Validate(out, cfg); err != nil {
		return nil, nil, err
	}
	return out, cfg, nil
}
