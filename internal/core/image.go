// Source and processed image buffers of a session
package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"image-filter-layers/internal/imaging"
)

// ImageData holds the two buffers the application keeps: the unmodified
// source and the latest processed result. It is owned by a Session and is
// not safe for concurrent use.
type ImageData struct {
	original  imaging.Image
	processed imaging.Image
	hasImage  bool
	filepath  string
	metadata  ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width  int
	Height int
	Format string
}

func NewImageData() *ImageData {
	return &ImageData{}
}

// SetOriginal stores a copy of img as the source and resets the processed
// buffer to it.
func (d *ImageData) SetOriginal(img imaging.Image, path string) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("set source image: %w", err)
	}

	d.original = img.Clone()
	d.processed = d.original
	d.hasImage = true
	d.filepath = path
	d.metadata = ImageMetadata{
		Width:  img.Width,
		Height: img.Height,
		Format: formatFromPath(path),
	}
	return nil
}

// SetProcessed replaces the processed buffer. Its dimensions must match the
// source.
func (d *ImageData) SetProcessed(img imaging.Image) error {
	if !d.hasImage {
		return ErrNoImage
	}
	if !img.SameSize(d.original) {
		return fmt.Errorf("processed image %dx%d does not match source %dx%d",
			img.Width, img.Height, d.original.Width, d.original.Height)
	}
	d.processed = img
	return nil
}

// Original returns the source buffer. Callers must not modify it.
func (d *ImageData) Original() (imaging.Image, bool) {
	return d.original, d.hasImage
}

// Processed returns the processed buffer. Callers must not modify it.
func (d *ImageData) Processed() (imaging.Image, bool) {
	return d.processed, d.hasImage
}

func (d *ImageData) HasImage() bool { return d.hasImage }

func (d *ImageData) Filepath() string { return d.filepath }

func (d *ImageData) Metadata() ImageMetadata { return d.metadata }

// Clear drops both buffers.
func (d *ImageData) Clear() {
	*d = ImageData{}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
