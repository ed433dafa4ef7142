// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSelectsScheme(t *testing.T) {
	assert.IsType(t, &localClient{}, For("/media/img.png", "/data"))
	assert.IsType(t, &localClient{}, For("relative/img.png", "/data"))
	assert.IsType(t, &httpClient{}, For("http://host/img.png", ""))
	assert.IsType(t, &httpClient{}, For("https://host/img.png", ""))
	assert.IsType(t, &s3Client{}, For("s3://bucket/img.png", ""))
}

func TestLocalFetchMapsMediaPrefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img.png"), []byte("pixels"), 0o600))

	c := &localClient{commonMediaPath: dir}
	data, err := c.Fetch(context.Background(), "/media/img.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)
}

func TestLocalFetchRequiresCommonPath(t *testing.T) {
	c := &localClient{}
	_, err := c.Fetch(context.Background(), "/media/img.png")
	assert.ErrorIs(t, err, ErrNoCommonMediaPath)
}

func TestLocalURLPassesThrough(t *testing.T) {
	c := &localClient{commonMediaPath: "/data"}
	url, err := c.URL(context.Background(), "/media/img.png")
	require.NoError(t, err)
	assert.Equal(t, "/media/img.png", url)
}

func TestS3ClientLazyInit(t *testing.T) {
	// Construction reads credentials from the environment and must not
	// fail even when none are set; failures surface on first use instead.
	c := &s3Client{}
	c.once.Do(c.init)
	require.NoError(t, c.err)
	assert.NotNil(t, c.client)
}

func TestSplitS3URI(t *testing.T) {
	bucket, key, err := splitS3URI("s3://my-bucket/path/to/img.png")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/img.png", key)

	_, _, err = splitS3URI("s3://bucket-only")
	assert.Error(t, err)
}

func TestInline(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	require.NoError(t, png.Encode(&buf, img))

	src, width, height, err := Inline(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, width)
	assert.Equal(t, 3, height)
	assert.True(t, strings.HasPrefix(src, "data:image/png;base64, "), "data URI prefix with space")
}

func TestInlineRejectsNonImage(t *testing.T) {
	_, _, _, err := Inline([]byte("not an image"))
	assert.Error(t, err)
}
