// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package clusterview

import (
	"context"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterview/clusterview/plot"
)

func TestCommonMediaPath(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"shared dir", []string{"/data/imgs/a.png", "/data/imgs/b.png"}, "/data/imgs"},
		{"diverging dirs", []string{"/data/train/a.png", "/data/test/b.png"}, "/data"},
		{"single value", []string{"/data/imgs/a.png"}, "/data/imgs"},
		{"nothing shared", []string{"/data/a.png", "other/b.png"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commonMediaPath(tt.values))
		})
	}
}

func TestLocalizeMediaRewritesPaths(t *testing.T) {
	tbl := new(table.Builder).
		Add("img", []string{"/data/imgs/a.png", "/data/imgs/b.png"}).
		Done()
	cfg := &plot.Config{Media: "img"}

	out := localizeMedia(tbl, cfg)

	require.NotNil(t, cfg.CommonMediaPath)
	assert.Equal(t, "/data/imgs", *cfg.CommonMediaPath)
	assert.Equal(t, []string{"/media/a.png", "/media/b.png"}, out.Column("img").([]string))
}

func TestLocalizeMediaLeavesRemoteAlone(t *testing.T) {
	for _, values := range [][]string{
		{"https://example.com/a.png", "https://example.com/b.png"},
		{"s3://bucket/a.png", "s3://bucket/b.png"},
	} {
		tbl := new(table.Builder).Add("img", values).Done()
		cfg := &plot.Config{Media: "img"}

		out := localizeMedia(tbl, cfg)

		assert.Nil(t, cfg.CommonMediaPath)
		assert.Equal(t, values, out.Column("img").([]string))
	}
}

func TestScatterSavesAndLoads(t *testing.T) {
	t.Setenv("CLUSTERVIEW_CACHE_DIR", t.TempDir())

	tbl := new(table.Builder).
		Add("img", []string{"/data/a.png", "/data/b.png", "/data/c.png"}).
		Add("x", []float64{1, 2, 3}).
		Add("y", []float64{3, 2, 1}).
		Done()

	view, err := Scatter(context.Background(), tbl, "x", "y", "img", Options{Title: "demo"})
	require.NoError(t, err)
	require.NotEmpty(t, view.UUID)
	require.Len(t, view.Data, 1)
	assert.Len(t, view.Data[0].ID, 3)
	assert.Equal(t, "/views/"+view.UUID, view.Path())

	loaded, err := Load(view.UUID)
	require.NoError(t, err)
	assert.Equal(t, view.UUID, loaded.UUID)
	assert.Equal(t, plot.KindScatter, loaded.Config.Type)
	require.NotNil(t, loaded.Config.CommonMediaPath)
	assert.Equal(t, "/data", *loaded.Config.CommonMediaPath)

	recent, err := Load("recent")
	require.NoError(t, err)
	assert.Equal(t, view.UUID, recent.UUID)

	cfg, err := LoadConfig(view.UUID)
	require.NoError(t, err)
	assert.Equal(t, plot.KindScatter, cfg.Type)

	raw, err := view.AsJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"uuid":"`+view.UUID+`"`)
}

func TestGridValidatesMediaColumn(t *testing.T) {
	t.Setenv("CLUSTERVIEW_CACHE_DIR", t.TempDir())

	tbl := new(table.Builder).Add("x", []float64{1}).Done()
	_, err := Grid(context.Background(), tbl, "img", Options{})
	assert.ErrorIs(t, err, plot.ErrColumnNotFound)
}
