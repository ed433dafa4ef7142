// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package media

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNoCommonMediaPath is returned when a local reference must be resolved
// to a filesystem path but the view has no common media path configured.
var ErrNoCommonMediaPath = errors.New("local media requires a common media path")

// localClient serves media stored on the local filesystem. Stored values
// carry the /media mount prefix; the common media path maps them back to
// absolute paths.
type localClient struct {
	commonMediaPath string
}

func (c *localClient) URL(_ context.Context, uri string) (string, error) {
	return uri, nil
}

func (c *localClient) Fetch(_ context.Context, uri string) ([]byte, error) {
	if c.commonMediaPath == "" {
		return nil, ErrNoCommonMediaPath
	}
	path := uri
	if strings.HasPrefix(uri, "/media") {
		path = c.commonMediaPath + strings.TrimPrefix(uri, "/media")
	}
	return os.ReadFile(path)
}
