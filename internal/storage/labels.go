// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"
)

// LabelManager manages the labels.json file of one view. Labels map a
// media id (as a string key) to the list of labels attached to it. The
// whole file is rewritten on every mutation; last write wins.
type LabelManager struct {
	dir string
}

// NewLabelManager returns a LabelManager for the given view directory.
func NewLabelManager(dir string) *LabelManager {
	return &LabelManager{dir: dir}
}

func (m *LabelManager) path() string {
	return filepath.Join(m.dir, "labels.json")
}

// ReadLabels returns the stored labels. A missing file is an empty map.
func (m *LabelManager) ReadLabels() (map[string][]string, error) {
	raw, err := os.ReadFile(m.path())
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}
	labels := map[string][]string{}
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("decoding labels: %w", err)
	}
	return labels, nil
}

func (m *LabelManager) writeLabels(labels map[string][]string) error {
	raw, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("encoding labels: %w", err)
	}
	if err := os.WriteFile(m.path(), raw, 0o644); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}
	return nil
}

// SaveLabel attaches label to every given media id. Ids that already
// carry the label are left untouched, so the call is idempotent.
func (m *LabelManager) SaveLabel(label string, mediaIDs []int64) error {
	labels, err := m.ReadLabels()
	if err != nil {
		return err
	}
	for _, id := range mediaIDs {
		key := strconv.FormatInt(id, 10)
		if !containsString(labels[key], label) {
			labels[key] = append(labels[key], label)
		}
	}
	return m.writeLabels(labels)
}

// DeleteLabel removes label from every given media id. Ids left without
// labels are dropped from the file entirely. Missing ids are ignored.
func (m *LabelManager) DeleteLabel(label string, mediaIDs []int64) error {
	labels, err := m.ReadLabels()
	if err != nil {
		return err
	}
	for _, id := range mediaIDs {
		key := strconv.FormatInt(id, 10)
		current, ok := labels[key]
		if !ok {
			continue
		}
		filtered := current[:0]
		for _, l := range current {
			if l != label {
				filtered = append(filtered, l)
			}
		}
		if len(filtered) == 0 {
			delete(labels, key)
		} else {
			labels[key] = filtered
		}
	}
	return m.writeLabels(labels)
}

// CountLabels reports, per label, how many of the selected ids carry it
// and how many ids carry it overall. The result is sorted by label for a
// stable response.
func (m *LabelManager) CountLabels(selection []int64) ([]LabelCount, error) {
	labels, err := m.ReadLabels()
	if err != nil {
		return nil, err
	}

	total := map[string]int{}
	for _, ls := range labels {
		for _, l := range ls {
			total[l]++
		}
	}
	selected := map[string]int{}
	for _, id := range selection {
		for _, l := range labels[strconv.FormatInt(id, 10)] {
			selected[l]++
		}
	}

	out := make([]LabelCount, 0, len(total))
	for label, count := range total {
		out = append(out, LabelCount{
			Label:              label,
			InCurrentSelection: selected[label],
			InEntireDataset:    count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// AsTable returns the labels as a one-hot table with a media_id column
// and one 0/1 column per distinct label, sorted by label name. With a
// non-empty label argument the table is restricted to ids carrying it.
func (m *LabelManager) AsTable(label string) (*table.Table, error) {
	labels, err := m.ReadLabels()
	if err != nil {
		return nil, err
	}

	distinct := map[string]bool{}
	ids := make([]int64, 0, len(labels))
	for key, ls := range labels {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("label key %q is not a media id", key)
		}
		if label != "" && !containsString(ls, label) {
			continue
		}
		ids = append(ids, id)
		for _, l := range ls {
			distinct[l] = true
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := make([]string, 0, len(distinct))
	for l := range distinct {
		names = append(names, l)
	}
	sort.Strings(names)

	b := new(table.Builder).Add("media_id", ids)
	for _, name := range names {
		hot := make([]int, len(ids))
		for i, id := range ids {
			if containsString(labels[strconv.FormatInt(id, 10)], name) {
				hot[i] = 1
			}
		}
		b.Add(name, hot)
	}
	return b.Done(), nil
}
