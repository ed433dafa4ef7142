// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterview/clusterview/internal/storage"
	"github.com/clusterview/clusterview/plot"
)

// newTestServer saves one scatter view into a temp cache and serves it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cacheDir := t.TempDir()
	tbl := new(table.Builder).
		Add("img", []string{"/media/a.png", "/media/b.png", "/media/c.png", "/media/d.png"}).
		Add("x", []float64{1, 2, 3, 4}).
		Add("y", []float64{10, 20, 30, 40}).
		Add("label", []string{"cat", "dog", "cat", "dog"}).
		Done()
	cfg := &plot.Config{
		Type:               plot.KindScatter,
		Media:              "img",
		Columns:            []string{"id", "img", "x", "y", "label"},
		X:                  plot.StringPtr("x"),
		Y:                  plot.StringPtr("y"),
		Color:              plot.StringPtr("label"),
		ColorIsCategorical: true,
		SaveMethod:         "local",
		CommonMediaPath:    plot.StringPtr("/data"),
	}
	require.NoError(t, storage.NewStorer(cacheDir).Save(context.Background(), "test-view", tbl, cfg))

	srv := httptest.NewServer(NewRouter(RouterConfig{CacheDir: cacheDir}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, out any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestViewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var payload struct {
		UUID   string           `json:"uuid"`
		Data   []storage.Series `json:"data"`
		Config plot.Config      `json:"config"`
	}
	resp := getJSON(t, srv, "/api/views/test-view/", &payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test-view", payload.UUID)
	assert.Len(t, payload.Data, 2)
	assert.Equal(t, plot.KindScatter, payload.Config.Type)
}

func TestViewNotFound(t *testing.T) {
	srv := newTestServer(t)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	resp := getJSON(t, srv, "/api/views/missing/", &payload)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrCodeNotFound, payload.Error.Code)
}

func TestRecentUUIDEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var uuid string
	resp := getJSON(t, srv, "/api/uuid", &uuid)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test-view", uuid)
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var cfg plot.Config
	resp := getJSON(t, srv, "/api/views/test-view/config", &cfg)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "img", cfg.Media)
	assert.ElementsMatch(t, []string{"cat", "dog"}, cfg.Colors)
}

func TestMediaEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var item storage.MediaItem
	resp := getJSON(t, srv, "/api/views/test-view/media/1", &item)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), item.Index)
	assert.Equal(t, "/media/b.png", item.Src)

	resp = getJSON(t, srv, "/api/views/test-view/media/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, srv, "/api/views/test-view/media/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMediaPageEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var items []storage.MediaItem
	resp := postJSON(t, srv, "/api/views/test-view/media",
		storage.MediaIndices{MediaIDs: []int64{0, 2}}, &items)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, items, 2)
}

func TestMediaMetadataEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var items []storage.MediaMetadata
	resp := postJSON(t, srv, "/api/views/test-view/media-metadata",
		storage.MediaIndices{MediaIDs: []int64{0, 1, 2, 3}}, &items)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, items, 4)
	assert.Len(t, items[0].Information, 3)
}

func TestFilterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var series []storage.Series
	resp := postJSON(t, srv, "/api/views/test-view/filter",
		[]storage.Filter{{Column: "x", Comparison: ">", Values: []any{2.5}}}, &series)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, series, 2)

	total := 0
	for _, s := range series {
		total += len(s.ID)
	}
	assert.Equal(t, 2, total)
}

func TestDownloadGridEndpoint(t *testing.T) {
	srv := newTestServer(t)

	raw, err := json.Marshal(storage.MediaIndices{MediaIDs: []int64{0, 1}})
	require.NoError(t, err)
	resp, err := srv.Client().Post(srv.URL+"/api/views/test-view/download-grid",
		"application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "data.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,img,x,y,label", lines[0])
}

func TestLabelLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Labels are keyed by media id, each id carrying its label list.
	var labels map[string][]string
	resp := getJSON(t, srv, "/api/views/test-view/labels", &labels)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, labels)

	resp = postJSON(t, srv, "/api/views/test-view/labels",
		labelRequest{Label: "blurry", MediaIDs: []int64{0, 2}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, srv, "/api/views/test-view/labels", &labels)
	require.Len(t, labels, 2)
	assert.Equal(t, []string{"blurry"}, labels["0"])
	assert.Equal(t, []string{"blurry"}, labels["2"])

	var counts []storage.LabelCount
	resp = postJSON(t, srv, "/api/views/test-view/labels/counts",
		labelRequest{MediaIDs: []int64{0, 1}}, &counts)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, counts, 1)
	assert.Equal(t, "blurry", counts[0].Label)
	assert.Equal(t, 1, counts[0].InCurrentSelection)
	assert.Equal(t, 2, counts[0].InEntireDataset)

	raw, err := json.Marshal(labelRequest{Label: "blurry", MediaIDs: []int64{0, 2}})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodDelete,
		srv.URL+"/api/views/test-view/labels", bytes.NewReader(raw))
	require.NoError(t, err)
	delResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	var after map[string][]string
	getJSON(t, srv, "/api/views/test-view/labels", &after)
	assert.Empty(t, after)
}

func TestSaveLabelRequiresLabel(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/views/test-view/labels",
		labelRequest{MediaIDs: []int64{0}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Generate one API request so counters exist.
	getJSON(t, srv, "/api/uuid", nil)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "clusterview_api_requests_total")
}

func TestIndexCatchAll(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "clusterview")
}
