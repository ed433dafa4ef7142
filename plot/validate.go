// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package plot

import (
	"errors"
	"fmt"

	"github.com/aclements/go-gg/table"
)

// ErrEmptyDataFrame is returned when the input table has no rows.
var ErrEmptyDataFrame = errors.New("dataframe is empty")

// ErrColumnNotFound is returned when a configured column does not exist
// in the input table.
var ErrColumnNotFound = errors.New("column not found in dataframe")

// ErrReservedMediaColumn is returned when the media column uses the
// reserved name "index", which is stripped from persisted columns.
var ErrReservedMediaColumn = errors.New(`media column must not be named "index"`)

// Validate checks a table against a Config before saving.
//
// The x column is not required to exist for violin plots: there x names a
// grouping that the layout synthesizes rather than a source column.
func Validate(tbl *table.Table, cfg *Config) error {
	if tbl == nil || tbl.Len() == 0 {
		return ErrEmptyDataFrame
	}
	cols := make(map[string]bool, len(tbl.Columns()))
	for _, c := range tbl.Columns() {
		cols[c] = true
	}
	if cfg.X != nil && !cols[*cfg.X] && cfg.Type != KindViolin {
		return fmt.Errorf("%q: %w", *cfg.X, ErrColumnNotFound)
	}
	if cfg.Y != nil && !cols[*cfg.Y] {
		return fmt.Errorf("%q: %w", *cfg.Y, ErrColumnNotFound)
	}
	if cfg.Media == "index" {
		return ErrReservedMediaColumn
	}
	if !cols[cfg.Media] {
		return fmt.Errorf("%q: %w", cfg.Media, ErrColumnNotFound)
	}
	return nil
}
