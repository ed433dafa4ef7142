// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/clusterview/clusterview/internal/media"
	"github.com/clusterview/clusterview/plot"
)

// RecentAlias resolves to the most recently modified view directory.
const RecentAlias = "recent"

// Loader reads a saved view from its cache directory.
type Loader struct {
	// UUID identifies the view.
	UUID string

	// Dir is the view's cache directory.
	Dir string
}

// NewLoader opens the view identified by uuid under cacheDir. The uuid
// "recent" resolves to the most recently modified view directory.
func NewLoader(uuid, cacheDir string) (*Loader, error) {
	if uuid == RecentAlias {
		resolved, err := recentDir(cacheDir)
		if err != nil {
			return nil, err
		}
		uuid = resolved
	}
	dir := filepath.Join(cacheDir, uuid)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: no directory for uuid %s at %s", ErrViewNotFound, uuid, dir)
	}
	return &Loader{UUID: uuid, Dir: dir}, nil
}

// recentDir returns the name of the most recently modified directory
// under cacheDir.
func recentDir(cacheDir string) (string, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return "", fmt.Errorf("%w: reading cache directory: %v", ErrViewNotFound, err)
	}
	best, found := "", false
	var bestMod int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); !found || mod > bestMod {
			best, bestMod, found = e.Name(), mod, true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: cache directory %s holds no views", ErrViewNotFound, cacheDir)
	}
	return best, nil
}

func (l *Loader) dbPath() string {
	return filepath.Join(l.Dir, "database.db")
}

// LoadConfig reads the view's config.json.
func (l *Loader) LoadConfig() (*plot.Config, error) {
	raw, err := os.ReadFile(filepath.Join(l.Dir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("reading view config: %w", err)
	}
	cfg := &plot.Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decoding view config: %w", err)
	}
	return cfg, nil
}

// LoadData reads the persisted plot payload from data.json.
func (l *Loader) LoadData() ([]Series, error) {
	raw, err := os.ReadFile(filepath.Join(l.Dir, "data.json"))
	if err != nil {
		return nil, fmt.Errorf("reading view data: %w", err)
	}
	var series []Series
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decoding view data: %w", err)
	}
	return series, nil
}

// Load returns the view's uuid, plot payload and config in one call, the
// payload the index page needs.
func (l *Loader) Load() (string, []Series, *plot.Config, error) {
	data, err := l.LoadData()
	if err != nil {
		return "", nil, nil, err
	}
	cfg, err := l.LoadConfig()
	if err != nil {
		return "", nil, nil, err
	}
	return l.UUID, data, cfg, nil
}

// GetRow returns a single media row. With asBase64 the media is fetched
// and inlined as a data URI including its pixel dimensions.
func (l *Loader) GetRow(ctx context.Context, mediaID int64, asBase64 bool) (*MediaItem, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := queryRows(ctx, db, fmt.Sprintf("SELECT * FROM %s WHERE id = %d", tableName, mediaID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: media id %d", ErrNoRows, mediaID)
	}
	return l.mediaItem(ctx, rows[0], cfg, asBase64)
}

// GetRows returns a page of media rows for the grid.
func (l *Loader) GetRows(ctx context.Context, mi MediaIndices) ([]*MediaItem, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := BuildMediaQuery(ctx, mi, true, cfg, db)
	rows, err := queryRows(ctx, db, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	items := make([]*MediaItem, 0, len(rows))
	for _, row := range rows {
		item, err := l.mediaItem(ctx, row, cfg, false)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetRowsMetadata returns the sidebar metadata for a selection without
// resolving media, and without pagination.
func (l *Loader) GetRowsMetadata(ctx context.Context, mi MediaIndices) ([]MediaMetadata, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := BuildMediaQuery(ctx, mi, false, cfg, db)
	rows, err := queryRows(ctx, db, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	items := make([]MediaMetadata, 0, len(rows))
	for _, row := range rows {
		items = append(items, MediaMetadata{Index: asInt64(row[0]), Information: row[2:]})
	}
	return items, nil
}

// FilterSeries recomputes the plot payload restricted to the rows
// matching the given filters.
func (l *Loader) FilterSeries(ctx context.Context, filters []Filter) ([]Series, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	clause := BuildFilterClause(ctx, db, cfg, filters)
	series, _, err := BuildSeries(ctx, db, cfg, clause)
	if err != nil {
		return nil, fmt.Errorf("building filtered payload: %w", err)
	}
	return series, nil
}

// DataFrame returns the raw rows and column names for a selection,
// unpaginated. Used for the CSV download.
func (l *Loader) DataFrame(ctx context.Context, mi MediaIndices) ([]string, [][]any, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	query := BuildMediaQuery(ctx, mi, false, cfg, db)
	rows, err := queryRows(ctx, db, query)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}
	return cfg.Columns, rows, nil
}

// SampleMedia returns up to limit randomly sampled media values, used to
// derive the common media path when serving an existing view.
func (l *Loader) SampleMedia(ctx context.Context, limit int) ([]string, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(l.dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	values, err := queryColumn(ctx, db, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY RANDOM() LIMIT %d", cfg.Media, tableName, limit))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Labels returns the view's label manager.
func (l *Loader) Labels() *LabelManager {
	return NewLabelManager(l.Dir)
}

// mediaItem resolves one scanned row into a MediaItem. Row layout is id,
// media, then the remaining columns.
func (l *Loader) mediaItem(ctx context.Context, row []any, cfg *plot.Config, asBase64 bool) (*MediaItem, error) {
	uri := fmt.Sprint(row[1])
	client := media.For(uri, deref(cfg.CommonMediaPath))

	item := &MediaItem{Index: asInt64(row[0]), Information: row[2:]}
	if asBase64 {
		data, err := client.Fetch(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("fetching media %d: %w", item.Index, err)
		}
		src, width, height, err := media.Inline(data)
		if err != nil {
			return nil, err
		}
		item.Src, item.Width, item.Height = src, &width, &height
		return item, nil
	}

	src, err := client.URL(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("resolving media %d: %w", item.Index, err)
	}
	item.Src = src
	return item, nil
}

// asInt64 normalizes a scanned id value.
func asInt64(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
