// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package clusterview plots media datasets for interactive exploration.
//
// Each plot constructor lays out a data table, persists the resulting
// view into the local cache and returns it. The companion server
// (cmd/server) serves saved views to the browser frontend.
package clusterview

import (
	"context"
	"path"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/clusterview/clusterview/internal/config"
	"github.com/clusterview/clusterview/internal/metrics"
	"github.com/clusterview/clusterview/internal/storage"
	"github.com/clusterview/clusterview/layout"
	"github.com/clusterview/clusterview/plot"
)

// Options carries the optional plot arguments shared by all
// constructors.
type Options = layout.Options

// View is a saved, servable visualization.
type View struct {
	// UUID identifies the view in the cache.
	UUID string `json:"uuid"`

	// Data is the plot payload consumed by the frontend.
	Data []storage.Series `json:"data"`

	// Config describes columns, axes and styling.
	Config *plot.Config `json:"config"`
}

// Path returns the frontend route of the view.
func (v *View) Path() string {
	return "/views/" + v.UUID
}

// AsJSON returns the view as the transport object the frontend
// consumes.
func (v *View) AsJSON() ([]byte, error) {
	return json.Marshal(v)
}

// Scatter plots two numeric columns against each other.
func Scatter(ctx context.Context, tbl *table.Table, x, y, media string, opts Options) (*View, error) {
	out, cfg, err := layout.Scatter(tbl, x, y, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// Grid shows the media in a plain grid without axes.
func Grid(ctx context.Context, tbl *table.Table, media string, opts Options) (*View, error) {
	out, cfg, err := layout.Grid(tbl, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// Histogram stacks the rows of a numeric column into bins. With bins
// zero or negative a default bin count is used.
func Histogram(ctx context.Context, tbl *table.Table, x, media string, bins int, opts Options) (*View, error) {
	if bins <= 0 {
		bins = layout.DefaultHistogramBins
	}
	out, cfg, err := layout.Histogram(tbl, x, media, bins, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// Violin shows the distribution of a numeric column as jittered density
// columns, one per color group.
func Violin(ctx context.Context, tbl *table.Table, y, media string, opts Options) (*View, error) {
	out, cfg, err := layout.Violin(tbl, y, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// BarChart shows the value counts of a column as scattered bars.
func BarChart(ctx context.Context, tbl *table.Table, x, media string, opts Options) (*View, error) {
	out, cfg, err := layout.BarChart(tbl, x, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// PieChart shows the value counts of a column as disc segments.
func PieChart(ctx context.Context, tbl *table.Table, color, media string, opts Options) (*View, error) {
	out, cfg, err := layout.PieChart(tbl, color, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// ConfusionMatrix plots predictions against ground truth as discs of
// scattered points.
func ConfusionMatrix(ctx context.Context, tbl *table.Table, yTrue, yPred, media string, opts Options) (*View, error) {
	out, cfg, err := layout.ConfusionMatrix(tbl, yTrue, yPred, media, opts)
	if err != nil {
		return nil, err
	}
	return save(ctx, out, cfg)
}

// Load reads a previously saved view from the cache. The uuid "recent"
// resolves to the newest view.
func Load(uuid string) (*View, error) {
	loader, err := storage.NewLoader(uuid, config.DefaultCacheDir())
	if err != nil {
		return nil, err
	}
	id, data, cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return &View{UUID: id, Data: data, Config: cfg}, nil
}

// LoadConfig reads only the configuration of a saved view.
func LoadConfig(uuid string) (*plot.Config, error) {
	loader, err := storage.NewLoader(uuid, config.DefaultCacheDir())
	if err != nil {
		return nil, err
	}
	return loader.LoadConfig()
}

// save persists the laid-out table under a fresh uuid and returns the
// resulting view.
func save(ctx context.Context, tbl *table.Table, cfg *plot.Config) (*View, error) {
	id := uuid.New().String()
	tbl = localizeMedia(tbl, cfg)

	if err := storage.NewStorer(config.DefaultCacheDir()).Save(ctx, id, tbl, cfg); err != nil {
		return nil, err
	}
	metrics.ViewsSaved.WithLabelValues(string(cfg.Type)).Inc()

	loader, err := storage.NewLoader(id, config.DefaultCacheDir())
	if err != nil {
		return nil, err
	}
	data, err := loader.LoadData()
	if err != nil {
		return nil, err
	}
	return &View{UUID: id, Data: data, Config: cfg}, nil
}

// localizeMedia rewrites local media paths to the server's /media mount.
// The shared directory prefix is recorded in the config so the server
// can resolve the mount back to the filesystem. Remote media (http or
// s3) passes through untouched.
func localizeMedia(tbl *table.Table, cfg *plot.Config) *table.Table {
	values, ok := tbl.Column(cfg.Media).([]string)
	if !ok || len(values) == 0 {
		return tbl
	}
	if strings.HasPrefix(values[0], "http") || strings.HasPrefix(values[0], "s3://") {
		return tbl
	}

	common := commonMediaPath(values)
	cfg.CommonMediaPath = plot.StringPtr(common)

	replaced := make([]string, len(values))
	for i, v := range values {
		replaced[i] = "/media" + strings.TrimPrefix(v, common)
	}
	return table.NewBuilder(tbl).Add(cfg.Media, replaced).Done()
}

// commonMediaPath returns the longest shared directory prefix of the
// given paths.
func commonMediaPath(values []string) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		return path.Dir(values[0])
	}
	segments := strings.Split(values[0], "/")
	n := len(segments)
	for _, v := range values[1:] {
		other := strings.Split(v, "/")
		if len(other) < n {
			n = len(other)
		}
		for i := 0; i < n; i++ {
			if segments[i] != other[i] {
				n = i
				break
			}
		}
	}
	return strings.Join(segments[:n], "/")
}
