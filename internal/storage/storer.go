// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"

	"github.com/clusterview/clusterview/internal/logging"
	"github.com/clusterview/clusterview/plot"
)

// Storer persists views into per-uuid cache directories.
type Storer struct {
	// CacheDir is the root under which each view gets its own directory.
	CacheDir string
}

// NewStorer returns a Storer rooted at cacheDir.
func NewStorer(cacheDir string) *Storer {
	return &Storer{CacheDir: cacheDir}
}

// Save persists a view: the table restricted to cfg.Columns goes into the
// view database with a synthetic zero-based id column in front, the
// minimal plot payload into data.json and the config into config.json.
// The cache directory is removed again when any step fails.
func (s *Storer) Save(ctx context.Context, uuid string, tbl *table.Table, cfg *plot.Config) error {
	dir := filepath.Join(s.CacheDir, uuid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating view directory: %w", err)
	}

	if err := s.save(ctx, dir, tbl, cfg); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.Warn().Err(rmErr).Str("dir", dir).Msg("could not clean up failed save")
		}
		return err
	}
	logging.Info().Str("uuid", uuid).Int("rows", tbl.Len()).Msg("view saved")
	return nil
}

func (s *Storer) save(ctx context.Context, dir string, tbl *table.Table, cfg *plot.Config) error {
	db, err := openDB(filepath.Join(dir, "database.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := writeTable(ctx, db, tbl, cfg); err != nil {
		return err
	}

	series, colors, err := BuildSeries(ctx, db, cfg, "")
	if err != nil {
		return fmt.Errorf("building plot payload: %w", err)
	}
	cfg.Colors = colors

	if err := writeJSONFile(filepath.Join(dir, "config.json"), cfg, true); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(dir, "data.json"), series, false)
}

// writeTable creates the database table and bulk-inserts the view rows
// inside one transaction.
func writeTable(ctx context.Context, db *sql.DB, tbl *table.Table, cfg *plot.Config) error {
	columns, err := tableColumns(tbl, cfg)
	if err != nil {
		return err
	}

	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	holders := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.name + " " + c.sqlType
		names[i] = c.name
		holders[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating view table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(names, ", "), strings.Join(holders, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for row := 0; row < tbl.Len(); row++ {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = c.values[row]
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("inserting row %d: %w", row, err)
		}
	}
	return tx.Commit()
}

// dbColumn is one materialized database column.
type dbColumn struct {
	name    string
	sqlType string
	values  []any
}

// tableColumns materializes cfg.Columns from the table, prepending the
// synthetic id column and normalizing bounding box cells to JSON list
// strings.
func tableColumns(tbl *table.Table, cfg *plot.Config) ([]dbColumn, error) {
	out := make([]dbColumn, 0, len(cfg.Columns)+1)

	ids := make([]any, tbl.Len())
	for i := range ids {
		ids[i] = int64(i)
	}
	out = append(out, dbColumn{name: "id", sqlType: "BIGINT", values: ids})

	for _, name := range cfg.Columns {
		if name == "id" {
			continue
		}
		col := tbl.Column(name)
		if col == nil {
			return nil, fmt.Errorf("%w: column %q missing from dataframe", ErrUnsupportedColumnType, name)
		}
		if cfg.BoundingBox != nil && name == *cfg.BoundingBox {
			values, err := boundingBoxValues(col)
			if err != nil {
				return nil, err
			}
			out = append(out, dbColumn{name: name, sqlType: "VARCHAR", values: values})
			continue
		}
		sqlType, values, err := materializeColumn(name, col)
		if err != nil {
			return nil, err
		}
		out = append(out, dbColumn{name: name, sqlType: sqlType, values: values})
	}
	return out, nil
}

// materializeColumn maps a table column slice onto a SQL type and its
// row values. Unrepresentable element types produce a descriptive error
// instead of a driver failure at insert time.
func materializeColumn(name string, col table.Slice) (string, []any, error) {
	rv := reflect.ValueOf(col)
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}

	switch rv.Type().Elem().Kind() {
	case reflect.String:
		return "VARCHAR", values, nil
	case reflect.Float32, reflect.Float64:
		return "DOUBLE", values, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "BIGINT", values, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "BIGINT", values, nil
	case reflect.Bool:
		return "BOOLEAN", values, nil
	default:
		return "", nil, fmt.Errorf("%w: column %q has element type %s",
			ErrUnsupportedColumnType, name, rv.Type().Elem())
	}
}

// boundingBoxValues normalizes every bounding box cell to a JSON list of
// box records, regardless of whether the source column holds single
// boxes, box lists or pre-serialized JSON.
func boundingBoxValues(col table.Slice) ([]any, error) {
	rv := reflect.ValueOf(col)
	values := make([]any, rv.Len())
	for i := range values {
		serialized, err := normalizeBoxCell(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("normalizing bounding box row %d: %w", i, err)
		}
		values[i] = serialized
	}
	return values, nil
}

func normalizeBoxCell(cell any) (string, error) {
	switch v := cell.(type) {
	case plot.BoundingBox:
		return marshalBoxes([]plot.BoundingBox{v})
	case *plot.BoundingBox:
		return marshalBoxes([]plot.BoundingBox{*v})
	case []plot.BoundingBox:
		return marshalBoxes(v)
	case string:
		var list []plot.BoundingBox
		if err := json.Unmarshal([]byte(v), &list); err == nil {
			return marshalBoxes(list)
		}
		var single plot.BoundingBox
		if err := json.Unmarshal([]byte(v), &single); err == nil {
			return marshalBoxes([]plot.BoundingBox{single})
		}
		return "", fmt.Errorf("cell %q is not bounding box JSON", v)
	default:
		return "", fmt.Errorf("cell type %T is not a bounding box", cell)
	}
}

func marshalBoxes(boxes []plot.BoundingBox) (string, error) {
	raw, err := json.Marshal(boxes)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// writeJSONFile writes v as JSON, indented for the human-readable config.
func writeJSONFile(path string, v any, indent bool) error {
	var (
		raw []byte
		err error
	)
	if indent {
		raw, err = json.MarshalIndent(v, "", "  ")
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
