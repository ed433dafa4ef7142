// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsMissingFileIsEmpty(t *testing.T) {
	m := NewLabelManager(t.TempDir())
	labels, err := m.ReadLabels()
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestSaveLabelIsIdempotent(t *testing.T) {
	m := NewLabelManager(t.TempDir())

	require.NoError(t, m.SaveLabel("cat", []int64{1, 2}))
	require.NoError(t, m.SaveLabel("cat", []int64{2, 3}))

	labels, err := m.ReadLabels()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"1": {"cat"},
		"2": {"cat"},
		"3": {"cat"},
	}, labels)
}

func TestDeleteLabelDropsEmptyKeys(t *testing.T) {
	m := NewLabelManager(t.TempDir())
	require.NoError(t, m.SaveLabel("cat", []int64{1, 2}))
	require.NoError(t, m.SaveLabel("dog", []int64{2}))

	require.NoError(t, m.DeleteLabel("cat", []int64{1, 2}))

	labels, err := m.ReadLabels()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2": {"dog"}}, labels)

	// Deleting a label an id does not carry is a no-op.
	require.NoError(t, m.DeleteLabel("cat", []int64{2, 99}))
	labels, err = m.ReadLabels()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2": {"dog"}}, labels)
}

func TestCountLabels(t *testing.T) {
	m := NewLabelManager(t.TempDir())
	require.NoError(t, m.SaveLabel("cat", []int64{1, 2, 3}))
	require.NoError(t, m.SaveLabel("dog", []int64{2}))

	counts, err := m.CountLabels([]int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []LabelCount{
		{Label: "cat", InCurrentSelection: 2, InEntireDataset: 3},
		{Label: "dog", InCurrentSelection: 1, InEntireDataset: 1},
	}, counts)
}

func TestLabelsAsTable(t *testing.T) {
	m := NewLabelManager(t.TempDir())
	require.NoError(t, m.SaveLabel("cat", []int64{3, 1}))
	require.NoError(t, m.SaveLabel("dog", []int64{1}))

	tbl, err := m.AsTable("")
	require.NoError(t, err)

	assert.Equal(t, []string{"media_id", "cat", "dog"}, tbl.Columns())
	assert.Equal(t, []int64{1, 3}, tbl.MustColumn("media_id"))
	assert.Equal(t, []int{1, 1}, tbl.MustColumn("cat"))
	assert.Equal(t, []int{1, 0}, tbl.MustColumn("dog"))
}

func TestLabelsAsTableRestricted(t *testing.T) {
	m := NewLabelManager(t.TempDir())
	require.NoError(t, m.SaveLabel("cat", []int64{1, 2}))
	require.NoError(t, m.SaveLabel("dog", []int64{2, 3}))

	tbl, err := m.AsTable("dog")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, tbl.MustColumn("media_id"))
}
