// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging resizes uploaded images and derives thumbnail names.
// All output is JPEG regardless of the source format, which keeps
// thumbnail URLs derivable from image URLs by a pure string rewrite.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrBadImage marks uploads that cannot be processed: undecodable data,
// unknown formats, or decompression bombs. Callers map it to a client
// error rather than a server fault.
var ErrBadImage = errors.New("unsupported or corrupt image")

const (
	// StandardWidth bounds full-size display images.
	StandardWidth = 1200
	// ThumbWidth bounds derived thumbnails.
	ThumbWidth = 400

	// jpegQuality for all encoded output.
	jpegQuality = 80
	// maxImagePixels guards against decompression bombs.
	maxImagePixels = 100_000_000

	// Thumbnail keys are the source key with the extension replaced by
	// suffix+ext, so the thumbnail URL can always be computed from the
	// image URL alone.
	thumbSuffix = "_resized"
	thumbExt    = ".jpg"
)

// Resize decodes data, scales it to at most maxWidth pixels wide while
// preserving the aspect ratio, and re-encodes it as JPEG. Images already
// at or under maxWidth are re-encoded without scaling. Undecodable data
// and absurdly large images return an error.
func Resize(data []byte, maxWidth int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrBadImage, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxWidth {
		height = height * maxWidth / width
		if height < 1 {
			height = 1
		}
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ThumbKey returns the storage key of the thumbnail derived from
// imageKey: the extension is stripped and replaced with "_resized.jpg".
// The rewrite only touches the final path element, so it applies to
// full URLs as well as bare keys.
func ThumbKey(imageKey string) string {
	ext := path.Ext(imageKey)
	return strings.TrimSuffix(imageKey, ext) + thumbSuffix + thumbExt
}
