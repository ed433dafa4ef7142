// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// comparisons is the allowed filter operator set.
var comparisons = map[string]bool{
	">": true, "<": true, "=": true, "!=": true,
	">=": true, "<=": true, "IN": true, "NOT IN": true,
}

// Filter restricts a media selection to rows matching one comparison.
// Filters arrive from the browser and are validated against the live view
// database before they are allowed anywhere near a query.
type Filter struct {
	Column     string `json:"column"`
	Comparison string `json:"comparison"`
	Values     []any  `json:"values"`
}

// IsValid reports whether the filter can safely be rendered into SQL.
//
// The column must be one of the view's columns, the comparison must be in
// the allowed set, and every value must be numeric or an exact member of
// the column's distinct values. Membership is checked against db so
// arbitrary strings never reach a query. An empty value list is invalid.
func (f Filter) IsValid(ctx context.Context, columns []string, db *sql.DB) bool {
	if !containsString(columns, f.Column) {
		return false
	}
	if !comparisons[f.Comparison] {
		return false
	}
	if len(f.Values) == 0 {
		return false
	}

	var distinct []any
	for _, v := range f.Values {
		if s, ok := v.(string); ok && s == "" {
			return false
		}
		if isNumeric(v) {
			continue
		}
		if distinct == nil {
			var err error
			distinct, err = queryColumn(ctx, db, fmt.Sprintf("SELECT DISTINCT %s FROM %s", f.Column, tableName))
			if err != nil {
				return false
			}
		}
		if !valueInColumn(v, distinct) {
			return false
		}
	}
	return true
}

// isNumeric reports whether the value is a number or a string parseable
// as one.
func isNumeric(v any) bool {
	switch val := v.(type) {
	case int, int32, int64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	default:
		return false
	}
}

// valueInColumn reports whether v matches one of the column's distinct
// values. Values come from JSON and database scans with differing dynamic
// types, so comparison happens on the printed form.
func valueInColumn(v any, distinct []any) bool {
	want := fmt.Sprint(v)
	for _, d := range distinct {
		if fmt.Sprint(d) == want {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
