// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/clusterview/clusterview/internal/storage"
)

// Handler serves the view API backed by a cache directory.
type Handler struct {
	// CacheDir is the root holding one directory per saved view.
	CacheDir string
}

// NewHandler returns a Handler serving views from cacheDir.
func NewHandler(cacheDir string) *Handler {
	return &Handler{CacheDir: cacheDir}
}

// viewPayload is the index page payload: everything needed to render a
// view in one request.
type viewPayload struct {
	UUID   string           `json:"uuid"`
	Data   []storage.Series `json:"data"`
	Config any              `json:"config"`
}

// labelRequest is the body for label mutations.
type labelRequest struct {
	Label    string  `json:"label"`
	MediaIDs []int64 `json:"media_ids"`
}

func (h *Handler) loader(w http.ResponseWriter, r *http.Request) *storage.Loader {
	uuid := chi.URLParam(r, "uuid")
	loader, err := storage.NewLoader(uuid, h.CacheDir)
	if err != nil {
		writeNotFound(w, r, fmt.Sprintf("no view for uuid %s", uuid))
		return nil
	}
	return loader
}

// View returns the uuid, plot payload and config of one view.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	uuid, data, cfg, err := loader.Load()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, viewPayload{UUID: uuid, Data: data, Config: cfg})
}

// RecentUUID returns the uuid of the most recently saved view.
func (h *Handler) RecentUUID(w http.ResponseWriter, r *http.Request) {
	loader, err := storage.NewLoader(storage.RecentAlias, h.CacheDir)
	if err != nil {
		writeNotFound(w, r, "no views saved yet")
		return
	}
	writeSuccess(w, loader.UUID)
}

// Config returns a view's configuration.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	cfg, err := loader.LoadConfig()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, cfg)
}

// Media returns a single media item. With ?as_base64=true the media
// bytes are inlined as a data URI.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	mediaID, err := strconv.ParseInt(chi.URLParam(r, "mediaID"), 10, 64)
	if err != nil {
		writeBadRequest(w, r, "media id must be an integer")
		return
	}
	asBase64 := r.URL.Query().Get("as_base64") == "true"

	item, err := loader.GetRow(r.Context(), mediaID, asBase64)
	if errors.Is(err, storage.ErrNoRows) {
		writeNotFound(w, r, fmt.Sprintf("no media with id %d", mediaID))
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, item)
}

// MediaPage returns a page of media items for a selection.
func (h *Handler) MediaPage(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var mi storage.MediaIndices
	if err := json.NewDecoder(r.Body).Decode(&mi); err != nil {
		writeBadRequest(w, r, "invalid media selection")
		return
	}

	items, err := loader.GetRows(r.Context(), mi)
	if errors.Is(err, storage.ErrNoRows) {
		writeNotFound(w, r, "selection matches no media")
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, items)
}

// MediaMetadata returns the sidebar metadata for a selection,
// unpaginated.
func (h *Handler) MediaMetadata(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var mi storage.MediaIndices
	if err := json.NewDecoder(r.Body).Decode(&mi); err != nil {
		writeBadRequest(w, r, "invalid media selection")
		return
	}

	items, err := loader.GetRowsMetadata(r.Context(), mi)
	if errors.Is(err, storage.ErrNoRows) {
		writeNotFound(w, r, "selection matches no media")
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, items)
}

// Filter recomputes the plot payload for the given filters.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var filters []storage.Filter
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeBadRequest(w, r, "invalid filters")
		return
	}

	series, err := loader.FilterSeries(r.Context(), filters)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, series)
}

// DownloadGrid streams the selected rows as a CSV attachment.
func (h *Handler) DownloadGrid(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var mi storage.MediaIndices
	if err := json.NewDecoder(r.Body).Decode(&mi); err != nil {
		writeBadRequest(w, r, "invalid media selection")
		return
	}

	columns, rows, err := loader.DataFrame(r.Context(), mi)
	if errors.Is(err, storage.ErrNoRows) {
		writeNotFound(w, r, "selection matches no media")
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=data.csv")
	cw := csv.NewWriter(w)
	_ = cw.Write(columns)
	record := make([]string, 0, len(columns))
	for _, row := range rows {
		record = record[:0]
		for _, cell := range row {
			if cell == nil {
				record = append(record, "")
				continue
			}
			record = append(record, fmt.Sprint(cell))
		}
		_ = cw.Write(record)
	}
	cw.Flush()
}

// Labels returns all labels of a view.
func (h *Handler) Labels(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	labels, err := loader.Labels().ReadLabels()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, labels)
}

// SaveLabel attaches a label to the given media ids.
func (h *Handler) SaveLabel(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Label == "" {
		writeBadRequest(w, r, "label and media_ids are required")
		return
	}
	if err := loader.Labels().SaveLabel(req.Label, req.MediaIDs); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, "ok")
}

// DeleteLabel removes a label from the given media ids.
func (h *Handler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Label == "" {
		writeBadRequest(w, r, "label and media_ids are required")
		return
	}
	if err := loader.Labels().DeleteLabel(req.Label, req.MediaIDs); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, "ok")
}

// LabelCounts reports per-label counts for a selection and the whole
// dataset.
func (h *Handler) LabelCounts(w http.ResponseWriter, r *http.Request) {
	loader := h.loader(w, r)
	if loader == nil {
		return
	}
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid selection")
		return
	}
	counts, err := loader.Labels().CountLabels(req.MediaIDs)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeSuccess(w, counts)
}
