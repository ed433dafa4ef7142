// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package media

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// presignExpiry is the lifetime of presigned S3 URLs handed to the browser.
const presignExpiry = time.Hour

// s3Client resolves s3:// references to presigned URLs. Credentials come
// from the standard AWS environment variables; the underlying client is
// created lazily on first use so views without S3 media never touch it.
type s3Client struct {
	once   sync.Once
	client *minio.Client
	err    error
}

var sharedS3 = &s3Client{}

func newS3Client() *s3Client {
	return sharedS3
}

func (c *s3Client) init() {
	endpoint := os.Getenv("AWS_S3_ENDPOINT")
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	c.client, c.err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvAWS(),
		Secure: true,
		Region: os.Getenv("AWS_REGION"),
	})
}

func (c *s3Client) URL(ctx context.Context, uri string) (string, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return "", fmt.Errorf("creating s3 client: %w", c.err)
	}
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return "", err
	}
	signed, err := c.client.PresignedGetObject(ctx, bucket, key, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", uri, err)
	}
	return signed.String(), nil
}

func (c *s3Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	url, err := c.URL(ctx, uri)
	if err != nil {
		return nil, err
	}
	return defaultHTTPClient.Fetch(ctx, url)
}

// splitS3URI splits s3://bucket/key/parts into bucket and key.
func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q", uri)
	}
	return bucket, key, nil
}
