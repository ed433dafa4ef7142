// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// Scatter lays out a scatter plot of two numeric columns.
func Scatter(tbl *table.Table, x, y, media string, opts Options) (*table.Table, *plot.Config, error) {
	cfg := &plot.Config{
		Type:    plot.KindScatter,
		Media:   media,
		X:       plot.StringPtr(x),
		Y:       plot.StringPtr(y),
		Columns: columnsForDB(tbl, media, plot.KindScatter, x, y),
	}
	opts.apply(cfg)
	if err := plot.Validate(tbl, cfg); err != nil {
		return nil, nil, err
	}
	return tbl, cfg, nil
}

// Grid lays out a plain media grid without axes.
func Grid(tbl *table.Table, media string, opts Options) (*table.Table, *plot.Config, error) {
	cfg := &plot.Config{
		Type:    plot.KindGrid,
		Media:   media,
		Columns: columnsForDB(tbl, media, plot.KindGrid, "", ""),
	}
	opts.apply(cfg)
	// Grids ignore the color option; there is nothing to color.
	cfg.Color = nil
	cfg.ColorIsCategorical = false
	if err := plot.Validate(tbl, cfg); err != nil {
		return nil, nil, err
	}
	return tbl, cfg, nil
}
