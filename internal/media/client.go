// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package media resolves media references stored in a view database.
//
// A media value is a local path (stored with the common media path replaced
// by the /media mount), an http(s) URL or an s3:// URL. Clients turn those
// references into browser-servable URLs and, when inline base64 rendering
// is requested, into raw bytes.
package media

import (
	"context"
	"strings"
)

// Client resolves media references for one storage scheme.
type Client interface {
	// URL returns the browser-facing URL for a media reference. For S3
	// this is a presigned URL; local and http references pass through.
	URL(ctx context.Context, uri string) (string, error)

	// Fetch returns the raw media bytes, used for base64 inlining.
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// For returns the client handling the given media reference. References
// without a known scheme are treated as local paths below commonMediaPath.
func For(uri, commonMediaPath string) Client {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		return newS3Client()
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return defaultHTTPClient
	default:
		return &localClient{commonMediaPath: commonMediaPath}
	}
}
