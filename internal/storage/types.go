// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

// MediaIndices selects a set of media rows, optionally sorted, filtered
// and paginated. It is the request body for the grid and metadata
// endpoints.
type MediaIndices struct {
	// MediaIDs are the row ids to select. An empty list selects all rows.
	MediaIDs []int64 `json:"media_ids"`

	// Page selects the page when pagination applies, zero-based.
	Page int `json:"page"`

	// SortColumn orders the result when set together with Ascending.
	SortColumn string `json:"sort_column,omitempty"`

	// Ascending selects the sort direction. Sorting only applies when
	// both SortColumn and Ascending are set.
	Ascending *bool `json:"ascending,omitempty"`

	// Filters restrict the selection further.
	Filters []Filter `json:"filters,omitempty"`
}

// MediaItem is one media row resolved for display.
type MediaItem struct {
	// Index is the row id.
	Index int64 `json:"index"`

	// Src is the browser-facing media reference: a /media path, a remote
	// URL or a base64 data URI.
	Src string `json:"src"`

	// Information holds the remaining row values, shown in the sidebar.
	Information []any `json:"information"`

	// Width and Height are only set when the media was inlined.
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// MediaMetadata is the lightweight variant of MediaItem without the media
// reference resolved, used for sorting and CSV export.
type MediaMetadata struct {
	Index       int64 `json:"index"`
	Information []any `json:"information"`
}

// LabelCount reports how often one label occurs in the current selection
// and in the whole dataset.
type LabelCount struct {
	Label              string `json:"label"`
	InCurrentSelection int    `json:"inCurrentSelection"`
	InEntireDataset    int    `json:"inEntireDataset"`
}
