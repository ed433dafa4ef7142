// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	cacheDir := t.TempDir()

	// A plain uuid stays within the configured cache.
	dir, uuid := resolveLocation(cacheDir, "some-uuid")
	assert.Equal(t, cacheDir, dir)
	assert.Equal(t, "some-uuid", uuid)

	// A path to a view directory selects that view directly.
	viewDir := filepath.Join(cacheDir, "abc123")
	require.NoError(t, os.MkdirAll(viewDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(viewDir, "config.json"), []byte("{}"), 0o644))

	dir, uuid = resolveLocation("/elsewhere", viewDir)
	assert.Equal(t, cacheDir, dir)
	assert.Equal(t, "abc123", uuid)

	// A directory without a view config is treated as a uuid.
	plainDir := filepath.Join(cacheDir, "not-a-view")
	require.NoError(t, os.MkdirAll(plainDir, 0o755))
	dir, uuid = resolveLocation(cacheDir, plainDir)
	assert.Equal(t, cacheDir, dir)
	assert.Equal(t, plainDir, uuid)
}

func TestCommonPath(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"single file", []string{"/data/imgs/a.png"}, "/data/imgs"},
		{"shared dir", []string{"/data/imgs/a.png", "/data/imgs/b.png"}, "/data/imgs"},
		{"diverging", []string{"/data/train/a.png", "/data/test/b.png"}, "/data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commonPath(tt.values))
		})
	}
}
