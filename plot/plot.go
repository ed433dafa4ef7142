// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package plot defines the view configuration shared between the layout
// constructors, the storage layer and the web API.
//
// A Config describes how a saved dataset maps onto a visualization: which
// column holds the media, which columns feed the axes, how points are
// colored and what extra columns are carried along for display. The Config
// is persisted as config.json inside the view cache directory and is the
// contract between the save path and the serving path.
package plot

// Kind identifies a visualization type.
type Kind string

// Supported visualization kinds.
const (
	KindScatter         Kind = "scatter"
	KindHistogram       Kind = "histogram"
	KindViolin          Kind = "violin"
	KindBarChart        Kind = "bar_chart"
	KindPieChart        Kind = "pie_chart"
	KindGrid            Kind = "grid"
	KindConfusionMatrix Kind = "confusion_matrix"
)

// Colors is the categorical color palette, matching the plotly.js default
// category colors extended with primaries. Series colors cycle through it.
var Colors = []string{
	"#1f77b4", // muted blue
	"#ff7f0e", // safety orange
	"#2ca02c", // cooked asparagus green
	"#d62728", // brick red
	"#9467bd", // muted purple
	"#8c564b", // chestnut brown
	"#e377c2", // raspberry yogurt pink
	"#7f7f7f", // middle gray
	"#bcbd22", // curry yellow-green
	"#17becf", // blue-teal
	"#0000FF", // blue
	"#00FF00", // green
	"#FF0000", // red
	"#00FFFF", // cyan
	"#FF00FF", // magenta
	"#FFFF00", // yellow
	"#C0C0C0", // silver
	"#800000", // maroon
}

// Color returns the palette color for a series index, cycling when the
// index exceeds the palette size.
func Color(idx int) string {
	return Colors[idx%len(Colors)]
}

// Config describes a saved view. The JSON field names are part of the
// on-disk cache format and the web API payload.
type Config struct {
	// Type is the visualization kind.
	Type Kind `json:"type"`

	// Media is the column holding the media reference for each row: a
	// local path, an http(s) URL or an s3:// URL.
	Media string `json:"media"`

	// Columns are the column names stored in the view database, in
	// order. The synthetic id column is prepended at save time.
	Columns []string `json:"columns"`

	// Color is the column used for coloring points, if any.
	Color *string `json:"color"`

	// ColorIsCategorical selects between per-value series coloring and a
	// continuous color scale.
	ColorIsCategorical bool `json:"color_is_categorical"`

	// BoundingBox is the column holding bounding box data, if any. Cells
	// are normalized to a JSON list of box records at save time.
	BoundingBox *string `json:"bounding_box"`

	// Title is the optional plot title.
	Title *string `json:"title"`

	// X and Y are the axis columns, if the kind uses axes.
	X *string `json:"x"`
	Y *string `json:"y"`

	// XNames holds categorical tick labels for bar charts and confusion
	// matrices. Unset optionals serialize as null, like the pointer
	// fields.
	XNames []string `json:"x_names"`

	// Colors holds the per-series colors computed at save time so the
	// frontend does not have to rederive them.
	Colors []string `json:"colors"`

	// Display lists extra columns shown alongside the media.
	Display []string `json:"display"`

	// SaveMethod is the persistence backend, "local" or "s3".
	SaveMethod string `json:"save_method"`

	// CommonMediaPath is the filesystem prefix shared by all local media
	// values. It is stripped from stored media paths and mounted under
	// /media when serving.
	CommonMediaPath *string `json:"common_media_path"`
}

// BoundingBox is a single box annotation on a media item. Coordinates are
// pixel values in the media's coordinate system.
type BoundingBox struct {
	XMin  float64 `json:"xmin"`
	YMin  float64 `json:"ymin"`
	XMax  float64 `json:"xmax"`
	YMax  float64 `json:"ymax"`
	Color *string `json:"color,omitempty"`
	Label *string `json:"label,omitempty"`
}

// StringPtr returns a pointer to s, or nil when s is empty. Convenience
// for the optional Config fields.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
