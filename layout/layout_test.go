// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterview/clusterview/plot"
)

func scatterTable() *table.Table {
	return new(table.Builder).
		Add("img", []string{"a.png", "b.png", "c.png", "d.png"}).
		Add("x", []float64{1, 2, 3, 4}).
		Add("y", []float64{4, 3, 2, 1}).
		Add("label", []string{"cat", "dog", "cat", "cat"}).
		Done()
}

func TestColumnsForDB(t *testing.T) {
	tbl := scatterTable()

	got := columnsForDB(tbl, "img", plot.KindScatter, "x", "y")
	assert.Equal(t, []string{"id", "img", "x", "y", "label"}, got)

	got = columnsForDB(tbl, "img", plot.KindGrid, "", "")
	assert.Equal(t, []string{"id", "img", "x", "y", "label"}, got)
}

func TestColumnsForDBDropsIndex(t *testing.T) {
	tbl := new(table.Builder).
		Add("img", []string{"a.png"}).
		Add("index", []int{0}).
		Done()
	got := columnsForDB(tbl, "img", plot.KindGrid, "", "")
	assert.Equal(t, []string{"id", "img"}, got)
}

func TestScatter(t *testing.T) {
	out, cfg, err := Scatter(scatterTable(), "x", "y", "img", Options{Color: "label", Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "img", "x", "y", "label"}, cfg.Columns)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, plot.KindScatter, cfg.Type)
	assert.Equal(t, "x", *cfg.X)
	assert.Equal(t, "y", *cfg.Y)
	assert.Equal(t, "label", *cfg.Color)
	assert.True(t, cfg.ColorIsCategorical)
	assert.Equal(t, "t", *cfg.Title)
	assert.Equal(t, "local", cfg.SaveMethod)
}

func TestScatterUnknownColumn(t *testing.T) {
	_, _, err := Scatter(scatterTable(), "missing", "y", "img", Options{})
	assert.ErrorIs(t, err, plot.ErrColumnNotFound)
}

func TestGridIgnoresColor(t *testing.T) {
	_, cfg, err := Grid(scatterTable(), "img", Options{Color: "label"})
	require.NoError(t, err)
	assert.Nil(t, cfg.Color)
	assert.Nil(t, cfg.X)
}

func TestDotHeights(t *testing.T) {
	got := dotHeights([]float64{1, 1, 2, 10}, 2)
	assert.Equal(t, []float64{1, 2, 3, 1}, got)
}

func TestHistogram(t *testing.T) {
	out, cfg, err := Histogram(scatterTable(), "x", "img", 2, Options{})
	require.NoError(t, err)

	assert.Equal(t, plot.KindHistogram, cfg.Type)
	assert.Equal(t, "x", *cfg.X)
	assert.Equal(t, "_y", *cfg.Y)
	assert.Equal(t, []string{"id", "img", "x", "_y", "y", "label"}, cfg.Columns)

	ys := out.MustColumn("_y").([]float64)
	require.Len(t, ys, 4)
	// x values 1,2 land in the first bin, 3,4 in the second.
	assert.Equal(t, []float64{1, 2, 1, 2}, ys)
}

func TestHistogramRejectsReservedColumns(t *testing.T) {
	tbl := new(table.Builder).
		Add("img", []string{"a.png"}).
		Add("_y", []float64{1}).
		Done()
	_, _, err := Histogram(tbl, "_y", "img", 10, Options{})
	assert.Error(t, err)
}

func TestViolinJitterBounds(t *testing.T) {
	ys := []float64{1, 2, 2, 2, 3, 4, 5, 5, 6}
	jitter := violinJitter(ys)
	require.Len(t, jitter, len(ys))
	for _, x := range jitter {
		assert.GreaterOrEqual(t, x, -0.5)
		assert.Less(t, x, 0.5)
	}
}

func TestViolinGroupsOffsetByTwo(t *testing.T) {
	tbl := new(table.Builder).
		Add("img", []string{"a", "b", "c", "d", "e", "f"}).
		Add("score", []float64{1, 2, 3, 1, 2, 3}).
		Add("group", []string{"g1", "g1", "g1", "g2", "g2", "g2"}).
		Done()

	out, cfg, err := Violin(tbl, "score", "img", Options{Color: "group"})
	require.NoError(t, err)
	assert.Equal(t, "x", *cfg.X)
	assert.Equal(t, "score", *cfg.Y)

	xs := out.MustColumn("x").([]float64)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, xs[i], 0.5, "first group centers on 0")
	}
	for i := 3; i < 6; i++ {
		assert.InDelta(t, 2, xs[i], 0.5, "second group centers on 2")
	}
}

func TestBarChart(t *testing.T) {
	out, cfg, err := BarChart(scatterTable(), "label", "img", Options{})
	require.NoError(t, err)

	assert.Equal(t, plot.KindBarChart, cfg.Type)
	// Bars ordered by descending count.
	assert.Equal(t, []string{"cat", "dog"}, cfg.XNames)
	assert.Equal(t, "_x", *cfg.X)
	assert.Equal(t, "_y", *cfg.Y)

	xs := out.MustColumn("_x").([]float64)
	ys := out.MustColumn("_y").([]float64)
	labels := out.MustColumn("label").([]string)
	for i, label := range labels {
		bar := 0.0
		count := 3.0
		if label == "dog" {
			bar, count = 1.0, 1.0
		}
		assert.GreaterOrEqual(t, xs[i], bar)
		assert.LessOrEqual(t, xs[i], bar+barWidth)
		assert.GreaterOrEqual(t, ys[i], 0.0)
		assert.LessOrEqual(t, ys[i], count)
	}
}

func TestBarChartStacked(t *testing.T) {
	out, _, err := BarChart(scatterTable(), "label", "img", Options{Color: "label"})
	require.NoError(t, err)

	ys := out.MustColumn("_y").([]float64)
	labels := out.MustColumn("label").([]string)
	for i, label := range labels {
		max := 3.0
		if label == "dog" {
			max = 1.0
		}
		assert.LessOrEqual(t, ys[i], max)
	}
}

func TestPieChart(t *testing.T) {
	out, cfg, err := PieChart(scatterTable(), "label", "img", Options{})
	require.NoError(t, err)

	assert.Equal(t, plot.KindPieChart, cfg.Type)
	assert.Equal(t, "label", *cfg.Color)
	assert.True(t, cfg.ColorIsCategorical)

	labels := out.MustColumn("label").([]string)
	assert.Contains(t, labels, "0 - cat (75.0%)")
	assert.Contains(t, labels, "1 - dog (25.0%)")
	// Rows sorted by relabeled color value.
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, strings.Compare(sorted[i-1], sorted[i]) <= 0, "rows sorted by label")
	}

	xs := out.MustColumn("pie_chart_x").([]float64)
	ys := out.MustColumn("pie_chart_y").([]float64)
	for i := range xs {
		assert.LessOrEqual(t, math.Hypot(xs[i], ys[i]), 1.0, "points stay on the unit disc")
	}
}

func TestConfusionMatrix(t *testing.T) {
	tbl := new(table.Builder).
		Add("img", []string{"a", "b", "c", "d"}).
		Add("truth", []string{"dog", "cat", "cat", "dog"}).
		Add("pred", []string{"dog", "cat", "dog", "dog"}).
		Done()

	out, cfg, err := ConfusionMatrix(tbl, "truth", "pred", "img", Options{})
	require.NoError(t, err)

	assert.Equal(t, plot.KindConfusionMatrix, cfg.Type)
	assert.Equal(t, []string{"cat", "dog"}, cfg.XNames)
	assert.Equal(t, "truth", *cfg.Color)
	assert.Equal(t, "_label", *cfg.X)
	assert.Equal(t, "_prediction", *cfg.Y)

	xs := out.MustColumn("_label").([]float64)
	ys := out.MustColumn("_prediction").([]float64)
	truths := out.MustColumn("truth").([]string)
	preds := out.MustColumn("pred").([]string)
	for i := range xs {
		wantX := 1.0 // cat
		if truths[i] == "dog" {
			wantX = 2.0
		}
		wantY := 1.0
		if preds[i] == "dog" {
			wantY = 2.0
		}
		assert.InDelta(t, wantX, xs[i], confusionDiscRadius)
		assert.InDelta(t, wantY, ys[i], confusionDiscRadius)
	}

	// Rows sorted by coordinates.
	for i := 1; i < len(xs); i++ {
		if xs[i-1] == xs[i] {
			assert.LessOrEqual(t, ys[i-1], ys[i])
		} else {
			assert.Less(t, xs[i-1], xs[i])
		}
	}
}
