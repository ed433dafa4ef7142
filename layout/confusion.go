// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package layout

import (
	"math"
	"math/rand"
	"sort"

	"github.com/aclements/go-gg/table"

	"github.com/clusterview/clusterview/plot"
)

// confusionDiscRadius bounds the point jitter inside one matrix cell.
const confusionDiscRadius = 0.3

// ConfusionMatrix lays out a confusion matrix as a scatter: the cell for
// (true label i, predicted label j) is centered at (i+1, j+1) and the
// rows falling into it scatter uniformly over a disc around that center.
// Labels are the sorted distinct values of the true-label column and
// index both axes.
func ConfusionMatrix(tbl *table.Table, yTrue, yPred, media string, opts Options) (*table.Table, *plot.Config, error) {
	if err := checkReserved(tbl, "_label", "_prediction"); err != nil {
		return nil, nil, err
	}

	trueValues, err := stringColumn(tbl, yTrue)
	if err != nil {
		return nil, nil, err
	}
	predValues, err := stringColumn(tbl, yPred)
	if err != nil {
		return nil, nil, err
	}

	labels := distinctInOrder(trueValues)
	sort.Strings(labels)
	position := map[string]int{}
	for i, l := range labels {
		position[l] = i
	}

	xs := make([]float64, len(trueValues))
	ys := make([]float64, len(trueValues))
	for i := range trueValues {
		angle := rand.Float64() * 2 * math.Pi
		// sqrt for a uniform distribution over the disc.
		radius := math.Sqrt(rand.Float64() * confusionDiscRadius * confusionDiscRadius)
		xs[i] = float64(position[trueValues[i]]+1) + radius*math.Cos(angle)
		ys[i] = float64(position[predValues[i]]+1) + radius*math.Sin(angle)
	}

	out := table.NewBuilder(tbl).Add("_label", xs).Add("_prediction", ys).Done()
	out = sortTable(out, "_label", "_prediction")

	opts.Color = yTrue
	opts.ColorContinuous = false
	cfg := &plot.Config{
		Type:    plot.KindConfusionMatrix,
		Media:   media,
		X:       plot.StringPtr("_label"),
		Y:       plot.StringPtr("_prediction"),
		XNames:  labels,
		Columns: columnsForDB(out, media, plot.KindConfusionMatrix, "_prediction", "_label"),
	}
	opts.apply(cfg)
	if err := plot.Validate(out, cfg); err != nil {
		return nil, nil, err
	}
	return out, cfg, nil
}
