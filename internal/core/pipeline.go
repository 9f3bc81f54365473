// Session: the single owner of the live settings and both image buffers
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/config"
	"image-filter-layers/internal/imaging"
	"image-filter-layers/internal/layers"
)

// Session owns the live settings and the source/processed buffers. Every
// mutation that affects the output runs the full pipeline again before it
// returns. A Session is driven by one caller at a time.
type Session struct {
	logger   logrus.FieldLogger
	images   *ImageData
	settings config.Settings

	settingsPath string
	lastResult   layers.Result

	onProcessed func(layers.Result)
}

func NewSession(logger logrus.FieldLogger) *Session {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Session{
		logger:   logger,
		images:   NewImageData(),
		settings: config.DefaultSettings(),
	}
}

// SetCallbacks registers a function invoked after every recompute.
func (s *Session) SetCallbacks(onProcessed func(layers.Result)) {
	s.onProcessed = onProcessed
}

// Settings returns a copy of the live settings.
func (s *Session) Settings() config.Settings { return s.settings }

// Layer returns the layer in slot (1-based).
func (s *Session) Layer(slot int) (layers.Layer, bool) {
	return s.settings.Layers.Layer(slot)
}

// Images exposes the buffer holder.
func (s *Session) Images() *ImageData { return s.images }

// SettingsPath is the file the settings were last loaded from or saved to.
func (s *Session) SettingsPath() string { return s.settingsPath }

// LastResult returns the outcome of the most recent recompute.
func (s *Session) LastResult() layers.Result { return s.lastResult }

// SetSource installs a new source image and recomputes.
func (s *Session) SetSource(img imaging.Image, path string) (layers.Result, error) {
	if err := s.images.SetOriginal(img, path); err != nil {
		return layers.Result{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Width,
		"height": img.Height,
	}).Info("Source image set")
	return s.Recompute()
}

// CloseImage drops both buffers. The settings are kept.
func (s *Session) CloseImage() {
	if !s.images.HasImage() {
		return
	}
	s.logger.WithField("path", s.images.Filepath()).Info("Source image closed")
	s.images.Clear()
	s.lastResult = layers.Result{}
}

// Recompute runs the whole stack against the source image.
func (s *Session) Recompute() (layers.Result, error) {
	src, ok := s.images.Original()
	if !ok {
		return layers.Result{}, ErrNoImage
	}

	res := layers.Process(src, &s.settings.Layers, s.logger)
	if err := s.images.SetProcessed(res.Image); err != nil {
		return res, err
	}
	s.lastResult = res

	if s.onProcessed != nil {
		s.onProcessed(res)
	}
	return res, nil
}

// recomputeIfLoaded reruns the pipeline when a source image exists.
func (s *Session) recomputeIfLoaded() error {
	if !s.images.HasImage() {
		return nil
	}
	_, err := s.Recompute()
	return err
}

// SetLayer validates and stores a slot, then recomputes.
func (s *Session) SetLayer(slot int, l layers.Layer) error {
	if err := s.settings.Layers.SetLayer(slot, l); err != nil {
		s.logger.WithFields(logrus.Fields{"slot": slot}).WithError(err).Warn("Layer change rejected")
		return err
	}
	return s.recomputeIfLoaded()
}

// SetEnabled toggles a slot and recomputes.
func (s *Session) SetEnabled(slot int, enabled bool) error {
	return s.updateLayer(slot, func(l *layers.Layer) { l.Enabled = enabled })
}

// SetFilter changes the filter of a slot by name and recomputes.
func (s *Session) SetFilter(slot int, name string) error {
	kind, err := algorithms.ParseFilterKind(name)
	if err != nil {
		return &layers.ValidationError{Slot: slot, Field: "filter", Err: err}
	}
	return s.updateLayer(slot, func(l *layers.Layer) { l.Filter = kind })
}

// SetStrength changes the strength of a slot and recomputes.
func (s *Session) SetStrength(slot int, strength float64) error {
	return s.updateLayer(slot, func(l *layers.Layer) { l.Strength = strength })
}

// SwapLayers exchanges two slots and recomputes.
func (s *Session) SwapLayers(a, b int) error {
	if err := s.settings.Layers.Swap(a, b); err != nil {
		return err
	}
	return s.recomputeIfLoaded()
}

func (s *Session) updateLayer(slot int, fn func(*layers.Layer)) error {
	l, ok := s.settings.Layers.Layer(slot)
	if !ok {
		return s.SetLayer(slot, l)
	}
	fn(&l)
	return s.SetLayer(slot, l)
}

// SetConverterPath stores the document converter location. It does not
// affect the pipeline.
func (s *Session) SetConverterPath(path string) {
	s.settings.ConverterPath = path
	s.logger.WithField("path", path).Info("Converter path set")
}

// ApplySettings replaces the live settings after validating them.
func (s *Session) ApplySettings(next config.Settings) error {
	if err := next.Layers.Validate(); err != nil {
		return err
	}
	s.settings = next
	return s.recomputeIfLoaded()
}

// LoadSettings decodes path onto the live settings. On failure the live
// settings are left exactly as they were.
func (s *Session) LoadSettings(path string) error {
	next, err := config.LoadFile(path, s.settings)
	if err != nil {
		s.logger.WithField("path", path).WithError(err).Error("Loading settings failed")
		return err
	}
	s.settings = next
	s.settingsPath = path
	s.logger.WithFields(logrus.Fields{
		"path":    path,
		"enabled": s.settings.Layers.EnabledCount(),
	}).Info("Settings loaded")
	return s.recomputeIfLoaded()
}

// LoadDefaultSettings loads path if it exists. A missing file is not an
// error.
func (s *Session) LoadDefaultSettings(path string) error {
	err := s.LoadSettings(path)
	var derr *config.DecodeError
	if errors.As(err, &derr) && errors.Is(derr.Err, os.ErrNotExist) {
		s.logger.WithField("path", path).Debug("No default settings file")
		return nil
	}
	return err
}

// SaveSettings writes the live settings to path.
func (s *Session) SaveSettings(path string) error {
	if err := config.SaveFile(path, s.settings); err != nil {
		s.logger.WithField("path", path).WithError(err).Error("Saving settings failed")
		return err
	}
	s.settingsPath = path
	s.logger.WithField("path", path).Info("Settings saved")
	return nil
}

// SettingsName is the base name of the current settings file, or "" when
// none was loaded or saved.
func (s *Session) SettingsName() string {
	if s.settingsPath == "" {
		return ""
	}
	return filepath.Base(s.settingsPath)
}

// ExportName proposes a file name for the processed image.
func (s *Session) ExportName() string {
	return ExportName(s.images.Filepath(), &s.settings.Layers)
}

// ExportName builds "<base>_<slot>_<Filter>_<strength>" for every enabled
// slot, strength with one decimal. Without enabled slots it is just the base
// name; without a source path it is empty.
func ExportName(sourcePath string, stack *layers.Stack) string {
	if sourcePath == "" {
		return ""
	}
	name := filepath.Base(sourcePath)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	var parts []string
	for slot, l := range stack.All() {
		if l.Enabled {
			parts = append(parts, fmt.Sprintf("%d_%s_%.1f", slot, l.Filter, l.Strength))
		}
	}
	if len(parts) == 0 {
		return base
	}
	return base + "_" + strings.Join(parts, "_")
}
