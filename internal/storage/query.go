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
	"strings"

	"github.com/clusterview/clusterview/plot"
)

// pageSize is the number of media items per grid page.
const pageSize = 50

// BuildFilterClause renders validated filters into a SQL condition.
// Invalid filters are dropped rather than failing the whole request, so a
// stale filter from the browser degrades to a broader selection. The
// result is empty when no filter survives validation.
func BuildFilterClause(ctx context.Context, db *sql.DB, cfg *plot.Config, filters []Filter) string {
	clauses := make([]string, 0, len(filters))
	for _, f := range filters {
		if !f.IsValid(ctx, cfg.Columns, db) {
			continue
		}
		clauses = append(clauses, renderFilter(f))
	}
	return strings.Join(clauses, " AND ")
}

// renderFilter renders one validated filter. Scalar comparisons use the
// first value; = and != with multiple values widen to IN and NOT IN.
func renderFilter(f Filter) string {
	op := f.Comparison
	multi := op == "IN" || op == "NOT IN"
	if len(f.Values) > 1 {
		switch op {
		case "=":
			op, multi = "IN", true
		case "!=":
			op, multi = "NOT IN", true
		}
	}
	if multi {
		literals := make([]string, len(f.Values))
		for i, v := range f.Values {
			literals[i] = sqlLiteral(v)
		}
		return fmt.Sprintf("%s %s (%s)", f.Column, op, strings.Join(literals, ", "))
	}
	return fmt.Sprintf("%s %s %s", f.Column, op, sqlLiteral(f.Values[0]))
}

// sqlLiteral renders a filter value. Numbers stay bare; everything else
// is single-quoted with embedded quotes doubled.
func sqlLiteral(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		if isNumeric(val) {
			return val
		}
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

// BuildMediaQuery builds the SELECT for a media selection.
//
// A single id selects with equality, multiple ids with IN, and an empty
// id list selects every row. Sorting applies only when both the sort
// column and direction are set and the column is one of the view's
// columns. Pagination applies when requested and the selection spans more
// than one page.
func BuildMediaQuery(ctx context.Context, mi MediaIndices, paginate bool, cfg *plot.Config, db *sql.DB) string {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM " + tableName)

	hasWhere := false
	switch len(mi.MediaIDs) {
	case 0:
		// No id restriction.
	case 1:
		fmt.Fprintf(&sb, " WHERE id = %d", mi.MediaIDs[0])
		hasWhere = true
	default:
		ids := make([]string, len(mi.MediaIDs))
		for i, id := range mi.MediaIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		fmt.Fprintf(&sb, " WHERE id IN (%s)", strings.Join(ids, ", "))
		hasWhere = true
	}

	if len(mi.Filters) > 0 && cfg != nil && db != nil {
		if clause := BuildFilterClause(ctx, db, cfg, mi.Filters); clause != "" {
			if hasWhere {
				sb.WriteString(" AND " + clause)
			} else {
				sb.WriteString(" WHERE " + clause)
			}
		}
	}

	if mi.SortColumn != "" && mi.Ascending != nil && cfg != nil && containsString(cfg.Columns, mi.SortColumn) {
		dir := "DESC"
		if *mi.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", mi.SortColumn, dir)
	}

	if paginate && (len(mi.MediaIDs) > pageSize || len(mi.MediaIDs) == 0) {
		fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", pageSize, mi.Page*pageSize)
	}
	return sb.String()
}
