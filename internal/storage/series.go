// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/clusterview/clusterview/plot"
)

// Marker styles the points of one series.
type Marker struct {
	// Color is a single series color for categorical coloring, or the
	// per-point values for a continuous scale.
	Color      any     `json:"color,omitempty"`
	Colorscale string  `json:"colorscale,omitempty"`
	Showscale  bool    `json:"showscale,omitempty"`
	Opacity    float64 `json:"opacity,omitempty"`
}

// Series is one trace of the persisted plot payload, shaped for plotly.
// Grid views carry only ids; everything else adds coordinates and markers.
type Series struct {
	ID     []any   `json:"id"`
	X      []any   `json:"x,omitempty"`
	Y      []any   `json:"y,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Type   string  `json:"type,omitempty"`
	Name   string  `json:"name,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
}

// BuildSeries computes the minimal plot payload for a view, optionally
// restricted by a filter clause. It returns the series plus, for
// categorical coloring, the distinct color values in series order.
//
// The payload takes one of three shapes: per-color series when a
// categorical color column is set, id-only series for grids, and a single
// series otherwise.
func BuildSeries(ctx context.Context, db *sql.DB, cfg *plot.Config, whereClause string) ([]Series, []string, error) {
	if cfg.Color != nil && cfg.ColorIsCategorical {
		return buildCategoricalSeries(ctx, db, cfg, whereClause)
	}
	if cfg.Type == plot.KindGrid {
		series, err := buildGridSeries(ctx, db, whereClause)
		return series, nil, err
	}
	series, err := buildStandardSeries(ctx, db, cfg, whereClause)
	return series, nil, err
}

// buildCategoricalSeries emits one series per distinct color value,
// cycling through the palette. Histogram series are drawn translucent so
// overlapping bars stay readable.
func buildCategoricalSeries(ctx context.Context, db *sql.DB, cfg *plot.Config, whereClause string) ([]Series, []string, error) {
	distinct, err := queryColumn(ctx, db, fmt.Sprintf("SELECT DISTINCT %s FROM %s", *cfg.Color, tableName))
	if err != nil {
		return nil, nil, err
	}

	opacity := 1.0
	if cfg.Type == plot.KindHistogram {
		opacity = 0.5
	}

	series := make([]Series, 0, len(distinct))
	colors := make([]string, 0, len(distinct))
	for idx, value := range distinct {
		name := fmt.Sprint(value)
		colors = append(colors, name)

		query := fmt.Sprintf("SELECT id,%s,%s,%s FROM %s WHERE %s = %s",
			deref(cfg.X), deref(cfg.Y), *cfg.Color, tableName, *cfg.Color, sqlLiteral(name))
		if whereClause != "" {
			query += " AND " + whereClause
		}
		rows, err := queryRows(ctx, db, query)
		if err != nil {
			return nil, nil, err
		}
		series = append(series, Series{
			ID:   column(rows, 0),
			X:    column(rows, 1),
			Y:    column(rows, 2),
			Mode: "markers",
			Type: "scattergl",
			Name: name,
			Marker: &Marker{
				Color:   plot.Color(idx),
				Opacity: opacity,
			},
		})
	}
	return series, colors, nil
}

// buildGridSeries selects only ids. Grids have no axes, so this keeps the
// payload as small as possible.
func buildGridSeries(ctx context.Context, db *sql.DB, whereClause string) ([]Series, error) {
	query := "SELECT id FROM " + tableName
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	ids, err := queryColumn(ctx, db, query)
	if err != nil {
		return nil, err
	}
	return []Series{{ID: ids}}, nil
}

// buildStandardSeries emits a single series with the configured axes. A
// non-categorical color column becomes a continuous Viridis scale.
func buildStandardSeries(ctx context.Context, db *sql.DB, cfg *plot.Config, whereClause string) ([]Series, error) {
	selectCols := []string{"id"}
	if cfg.X != nil {
		selectCols = append(selectCols, *cfg.X)
	}
	if cfg.Y != nil {
		selectCols = append(selectCols, *cfg.Y)
	}
	continuous := cfg.Color != nil && !cfg.ColorIsCategorical
	if continuous {
		selectCols = append(selectCols, *cfg.Color)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectCols, ","), tableName)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	rows, err := queryRows(ctx, db, query)
	if err != nil {
		return nil, err
	}

	s := Series{
		ID:   column(rows, 0),
		Mode: "markers",
		Type: "scattergl",
	}
	next := 1
	if cfg.X != nil {
		s.X = column(rows, next)
		next++
	}
	if cfg.Y != nil {
		s.Y = column(rows, next)
		next++
	}
	if continuous {
		s.Marker = &Marker{
			Color:      column(rows, next),
			Colorscale: "Viridis",
			Showscale:  true,
		}
	}
	return []Series{s}, nil
}

// column extracts one column from generically scanned rows.
func column(rows [][]any, idx int) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r[idx]
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
