package core

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/config"
	"image-filter-layers/internal/imaging"
	"image-filter-layers/internal/layers"
)

func sourceImage() imaging.Image {
	img := imaging.New(6, 5)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 5)
	}
	return img
}

func newSession(t *testing.T) *Session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewSession(logger)
}

func TestRecomputeWithoutImage(t *testing.T) {
	s := newSession(t)
	_, err := s.Recompute()
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Equal(t, KindState, Classify(err).Kind)

	// slot edits are still accepted before an image exists
	require.NoError(t, s.SetEnabled(1, true))
}

func TestSetSourceRunsPipeline(t *testing.T) {
	s := newSession(t)
	src := sourceImage()

	var calls int
	s.SetCallbacks(func(layers.Result) { calls++ })

	res, err := s.SetSource(src, "/tmp/scan.png")
	require.NoError(t, err)
	assert.True(t, res.Image.Equal(src), "all layers disabled")
	assert.Equal(t, 1, calls)
	assert.Equal(t, "png", s.Images().Metadata().Format)

	require.NoError(t, s.SetEnabled(1, true))
	processed, ok := s.Images().Processed()
	require.True(t, ok)
	want, err := algorithms.Apply(src, algorithms.Invert, 1)
	require.NoError(t, err)
	assert.True(t, processed.Equal(want))
	assert.Equal(t, 2, calls)

	original, _ := s.Images().Original()
	assert.True(t, original.Equal(src), "source buffer is never modified")
}

func TestEveryMutationRecomputesFromSource(t *testing.T) {
	s := newSession(t)
	src := sourceImage()
	_, err := s.SetSource(src, "a.jpg")
	require.NoError(t, err)

	require.NoError(t, s.SetEnabled(2, true))
	require.NoError(t, s.SetFilter(2, "Multiply"))
	require.NoError(t, s.SetStrength(2, 0.5))
	first, _ := s.Images().Processed()

	require.NoError(t, s.SetStrength(2, 0.5))
	second, _ := s.Images().Processed()
	assert.True(t, first.Equal(second), "re-running the same stack must not compound")

	require.NoError(t, s.SetEnabled(1, true))
	require.NoError(t, s.SwapLayers(1, 2))
	swapped, _ := s.Images().Processed()
	assert.False(t, swapped.Equal(second))
}

func TestRejectedMutation(t *testing.T) {
	s := newSession(t)
	before := s.Settings()

	err := s.SetFilter(1, "Lomo")
	assert.Equal(t, KindValidation, Classify(err).Kind)
	assert.ErrorIs(t, err, algorithms.ErrUnknownFilter)

	err = s.SetStrength(3, math.Inf(1))
	assert.Equal(t, KindValidation, Classify(err).Kind)

	err = s.SetEnabled(6, true)
	assert.ErrorIs(t, err, layers.ErrSlotOutOfRange)

	assert.Equal(t, before, s.Settings())
}

func TestLoadSettingsAtomicFailure(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t)
	require.NoError(t, s.SetLayer(2, layers.Layer{Enabled: true, Filter: algorithms.Blur, Strength: 2}))
	s.SetConverterPath("/opt/poppler/bin")
	before := s.Settings()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"layers": 5`), 0o644))

	err := s.LoadSettings(bad)
	require.Error(t, err)
	assert.Equal(t, KindConfigDecode, Classify(err).Kind)
	assert.Equal(t, before, s.Settings())
	assert.Empty(t, s.SettingsName())
}

func TestLoadAndSaveSettings(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t)
	_, err := s.SetSource(sourceImage(), "page.png")
	require.NoError(t, err)

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(
		`{"layers": [{"layer": 3, "enabled": true, "filter": "Invert", "strength": 1.0}]}`), 0o644))
	require.NoError(t, s.LoadSettings(partial))
	assert.Equal(t, "partial.json", s.SettingsName())

	l3, _ := s.Layer(3)
	assert.Equal(t, layers.Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}, l3)
	assert.Equal(t, 1, s.LastResult().Applied)

	out := filepath.Join(dir, "saved.yaml")
	require.NoError(t, s.SaveSettings(out))
	loaded, err := config.LoadFile(out, config.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, s.Settings(), loaded)
}

func TestLoadDefaultSettingsMissingFile(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.LoadDefaultSettings(filepath.Join(t.TempDir(), "settings.json")))
	assert.Equal(t, config.DefaultSettings(), s.Settings())
}

func TestSavedSettingsReloadOnStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultSettingsFile)

	s := newSession(t)
	require.NoError(t, s.SetLayer(2, layers.Layer{Enabled: true, Filter: algorithms.Sharpen, Strength: 2.5}))
	require.NoError(t, s.SwapLayers(2, 4))
	require.NoError(t, s.SaveSettings(path))

	next := newSession(t)
	require.NoError(t, next.LoadDefaultSettings(path))
	assert.Equal(t, s.Settings(), next.Settings())
	assert.Equal(t, config.DefaultSettingsFile, next.SettingsName())
}

func TestApplySettings(t *testing.T) {
	s := newSession(t)
	next := config.DefaultSettings()
	require.NoError(t, next.Layers.SetEnabled(5, true))
	require.NoError(t, s.ApplySettings(next))
	assert.Equal(t, 1, s.Settings().Layers.EnabledCount())
}

func TestCloseImage(t *testing.T) {
	s := newSession(t)
	_, err := s.SetSource(sourceImage(), "/data/page.png")
	require.NoError(t, err)
	require.NoError(t, s.SetEnabled(1, true))

	s.CloseImage()
	assert.False(t, s.Images().HasImage())
	assert.Empty(t, s.Images().Filepath())
	assert.Empty(t, s.ExportName())
	assert.Zero(t, s.LastResult().Applied)

	_, err = s.Recompute()
	assert.ErrorIs(t, err, ErrNoImage)
	l, _ := s.Layer(1)
	assert.True(t, l.Enabled, "settings survive closing the image")

	// edits without an image are stored but not run
	require.NoError(t, s.SetEnabled(2, true))
	s.CloseImage()
}

func TestExportName(t *testing.T) {
	stack := layers.Default()
	assert.Equal(t, "", ExportName("", &stack))
	assert.Equal(t, "scan", ExportName("/home/u/scan.pdf", &stack))

	require.NoError(t, stack.SetLayer(1, layers.Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}))
	require.NoError(t, stack.SetLayer(3, layers.Layer{Enabled: false, Filter: algorithms.Blur, Strength: 2}))
	require.NoError(t, stack.SetLayer(4, layers.Layer{Enabled: true, Filter: algorithms.Multiply, Strength: 0.35}))
	assert.Equal(t, "scan.final_1_Invert_1.0_4_Multiply_0.3", ExportName("scan.final.png", &stack))
	assert.Equal(t, "photo_1_Invert_1.0_4_Multiply_0.3", ExportName("photo.jpg", &stack))
}

func TestClassify(t *testing.T) {
	assert.True(t, Classify(nil).OK())
	assert.Equal(t, KindIO, Classify(errors.New("disk full")).Kind)
	assert.Equal(t, KindTransform, Classify(&algorithms.TransformError{Kind: algorithms.Blur, Err: errors.New("x")}).Kind)
	assert.Equal(t, "config_decode", KindConfigDecode.String())
}
