// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// Registered so image.DecodeConfig can probe the common formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Inline converts raw media bytes into a base64 data URI plus the image
// dimensions. The space after the comma is part of the wire format the
// frontend expects.
func Inline(data []byte) (src string, width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decoding media dimensions: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return "data:image/png;base64, " + encoded, cfg.Width, cfg.Height, nil
}
