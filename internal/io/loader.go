// Image file loading and saving through OpenCV
package io

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-filter-layers/internal/imaging"
)

var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadImage decodes path into an 8-bit RGB buffer. Alpha is discarded and
// grayscale files are expanded to three channels.
func (il *ImageLoader) LoadImage(path string) (imaging.Image, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !IsSupportedFormat(path) {
		return imaging.Image{}, fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return imaging.Image{}, fmt.Errorf("failed to load image: %s", path)
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	if err := gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB); err != nil {
		return imaging.Image{}, fmt.Errorf("convert %s to RGB: %w", path, err)
	}

	img := imaging.Image{
		Width:  rgb.Cols(),
		Height: rgb.Rows(),
		Pix:    rgb.ToBytes(),
	}
	if err := img.Validate(); err != nil {
		return imaging.Image{}, fmt.Errorf("decode %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Width,
		"height":   img.Height,
	}).Info("Image loaded successfully")

	return img, nil
}

// SaveImage encodes img to path; the format follows the extension.
func (il *ImageLoader) SaveImage(img imaging.Image, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if err := img.Validate(); err != nil {
		return fmt.Errorf("cannot save image: %w", err)
	}
	if !IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	rgb, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, img.Clone().Pix)
	if err != nil {
		return fmt.Errorf("wrap image buffer: %w", err)
	}
	defer rgb.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	if err := gocv.CvtColor(rgb, &bgr, gocv.ColorRGBToBGR); err != nil {
		return fmt.Errorf("convert to BGR: %w", err)
	}

	if !gocv.IMWrite(path, bgr) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Width,
		"height":   img.Height,
	}).Info("Image saved successfully")

	return nil
}

// IsSupportedFormat reports whether the extension of path is one the
// loader reads and writes.
func IsSupportedFormat(path string) bool {
	return slices.Contains(supportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// SupportedExtensions returns the accepted file extensions for file dialogs.
func SupportedExtensions() []string {
	return slices.Clone(supportedExtensions)
}
