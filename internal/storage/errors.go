// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import "errors"

var (
	// ErrViewNotFound is returned when no cache directory exists for a
	// requested view uuid.
	ErrViewNotFound = errors.New("view not found")

	// ErrNoRows is returned when a media query matches nothing.
	ErrNoRows = errors.New("query returned no results")

	// ErrUnsupportedColumnType is returned when a table column cannot be
	// represented in the view database.
	ErrUnsupportedColumnType = errors.New("cannot save dataframe: unsupported column type")
)
