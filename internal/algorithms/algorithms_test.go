package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-layers/internal/imaging"
)

// gradient builds a non-uniform test image whose channels differ.
func gradient(w, h int) imaging.Image {
	img := imaging.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB(x, y, uint8(x*255/max(w-1, 1)), uint8(y*255/max(h-1, 1)), uint8((x+y)*7))
		}
	}
	return img
}

func uniform(w, h int, v uint8) imaging.Image {
	img := imaging.New(w, h)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func mustApply(t *testing.T, img imaging.Image, kind FilterKind, strength float64) imaging.Image {
	t.Helper()
	out, err := Apply(img, kind, strength)
	require.NoError(t, err)
	return out
}

func TestKindsAreClosedAndParseable(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 20)
	assert.Equal(t, Invert, kinds[0])
	assert.Equal(t, DefaultKind, kinds[0])

	seen := map[string]bool{}
	for _, k := range kinds {
		name := k.String()
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true

		parsed, err := ParseFilterKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.NotEmpty(t, k.Description(), name)
	}
}

func TestParseFilterKindAliases(t *testing.T) {
	tests := []struct {
		in   string
		want FilterKind
	}{
		{"Negativ", Invert},
		{"Multiplikation", Multiply},
		{"Helligkeit", Brightness},
		{"gammacorrection", GammaCorrection},
		{" edgedetect ", EdgeDetect},
	}
	for _, tt := range tests {
		got, err := ParseFilterKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFilterKind("Vignette")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestUsesStrength(t *testing.T) {
	assert.True(t, Multiply.UsesStrength())
	assert.True(t, Posterize.UsesStrength())
	assert.False(t, Invert.UsesStrength())
	assert.False(t, AdaptiveThreshold.UsesStrength())
	assert.Equal(t, "FilterKind(42)", FilterKind(42).String())
}

func TestEveryKindPreservesDimensionsAndInput(t *testing.T) {
	src := gradient(9, 7)
	before := src.Clone()

	for _, k := range Kinds() {
		for _, s := range []float64{-1, 0, 0.5, 1, 3.7, 10} {
			out, err := Apply(src, k, s)
			require.NoError(t, err, "%s strength %v", k, s)
			assert.True(t, out.SameSize(src), "%s changed dimensions", k)
			assert.NoError(t, out.Validate())
		}
	}
	assert.True(t, before.Equal(src), "input was mutated")
}

func TestInvertIsInvolution(t *testing.T) {
	src := gradient(16, 16)
	once := mustApply(t, src, Invert, 1)
	assert.False(t, once.Equal(src))

	twice := mustApply(t, once, Invert, 1)
	assert.True(t, twice.Equal(src))

	r, _, _ := once.RGBAt(0, 0)
	assert.Equal(t, uint8(255), r)
}

func TestMultiply(t *testing.T) {
	src := gradient(8, 8)

	assert.True(t, mustApply(t, src, Multiply, 1).Equal(src))
	assert.True(t, mustApply(t, src, Multiply, 4).Equal(src))
	assert.True(t, mustApply(t, src, Multiply, 0).Equal(uniform(8, 8, 0)))
	assert.True(t, mustApply(t, src, Multiply, -2).Equal(uniform(8, 8, 0)))

	half := mustApply(t, uniform(1, 1, 200), Multiply, 0.5)
	assert.Equal(t, uint8(100), half.Pix[0])
}

func TestGammaIdentity(t *testing.T) {
	src := gradient(16, 16)
	assert.True(t, mustApply(t, src, GammaCorrection, 1).Equal(src))
	assert.True(t, mustApply(t, src, GammaCorrection, 0).Equal(src))

	brighter := mustApply(t, uniform(1, 1, 64), GammaCorrection, 2.2)
	assert.Greater(t, brighter.Pix[0], uint8(64))
}

func TestPosterizeClamp(t *testing.T) {
	src := gradient(16, 16)

	assert.True(t, mustApply(t, src, Posterize, 0).Equal(mustApply(t, src, Posterize, 1)))
	assert.True(t, mustApply(t, src, Posterize, 20).Equal(mustApply(t, src, Posterize, 8)))
	assert.True(t, mustApply(t, src, Posterize, 8).Equal(src))

	for _, v := range mustApply(t, src, Posterize, 1).Pix {
		assert.Contains(t, []uint8{0, 128}, v)
	}
}

func TestSolarize(t *testing.T) {
	src := imaging.Image{Width: 2, Height: 1, Pix: []uint8{100, 200, 255, 0, 128, 129}}

	half := mustApply(t, src, Solarize, 0.5)
	assert.Equal(t, []uint8{100, 55, 0, 0, 127, 126}, half.Pix)

	assert.True(t, mustApply(t, src, Solarize, 1.5).Equal(src))
	assert.True(t, mustApply(t, src, Solarize, 1).Equal(src))
}

func TestLumaFilters(t *testing.T) {
	src := gradient(10, 10)

	gray := mustApply(t, src, Grayscale, 1)
	bin := mustApply(t, src, Binarize, 1)
	for i := 0; i < len(gray.Pix); i += 3 {
		assert.Equal(t, gray.Pix[i], gray.Pix[i+1])
		assert.Equal(t, gray.Pix[i], gray.Pix[i+2])
		assert.Contains(t, []uint8{0, 255}, bin.Pix[i])
		assert.Equal(t, bin.Pix[i], bin.Pix[i+2])
	}

	assert.Equal(t, []uint8{255, 255, 255}, mustApply(t, uniform(1, 1, 128), Binarize, 1).Pix)
	assert.Equal(t, []uint8{0, 0, 0}, mustApply(t, uniform(1, 1, 127), Binarize, 1).Pix)

	mid := mustApply(t, uniform(1, 1, 128), Sepia, 1)
	assert.Greater(t, mid.Pix[0], mid.Pix[1])
	assert.Greater(t, mid.Pix[1], mid.Pix[2])
}

func TestColorBoost(t *testing.T) {
	src := gradient(12, 12)
	assert.True(t, mustApply(t, src, ColorBoost, 1).Equal(src))
	assert.True(t, mustApply(t, src, ColorBoost, 0).Equal(mustApply(t, src, Grayscale, 1)))

	boosted := mustApply(t, imaging.Image{Width: 1, Height: 1, Pix: []uint8{150, 100, 100}}, ColorBoost, 2)
	assert.Greater(t, boosted.Pix[0], uint8(150))
	assert.Less(t, boosted.Pix[1], uint8(100))
}

func TestAutocontrast(t *testing.T) {
	src := imaging.New(52, 1)
	for x := 0; x < 52; x++ {
		src.SetRGB(x, 0, uint8(x), uint8(x), uint8(x))
	}

	stretched := mustApply(t, src, Contrast, 1)
	assert.Equal(t, uint8(0), stretched.Pix[0])
	assert.Equal(t, uint8(255), stretched.Pix[len(stretched.Pix)-1])

	assert.True(t, mustApply(t, src, Brightness, 0).Equal(stretched))
	assert.True(t, mustApply(t, src, AdaptiveThreshold, 7).Equal(stretched))

	full := gradient(256, 1)
	assert.True(t, mustApply(t, full, Contrast, 1).Equal(full), "full range is already stretched")

	flat := uniform(4, 4, 90)
	assert.True(t, mustApply(t, flat, Brightness, 2).Equal(flat))

	trimmed := mustApply(t, src, Brightness, 1)
	assert.Equal(t, uint8(0), trimmed.Pix[5*3])
	assert.GreaterOrEqual(t, trimmed.Pix[46*3], uint8(254))
}

func TestConvolutionKernels(t *testing.T) {
	flat := uniform(6, 6, 90)

	emboss := mustApply(t, flat, Emboss, 1)
	for _, v := range emboss.Pix {
		assert.InDelta(t, 128, int(v), 1)
	}

	edges := mustApply(t, flat, EdgeDetect, 1)
	for _, v := range edges.Pix {
		assert.InDelta(t, 0, int(v), 1)
	}

	for _, k := range []FilterKind{Sharpen, Blur, EdgeEnhance, Detail, Smooth} {
		out := mustApply(t, flat, k, 1)
		for _, v := range out.Pix {
			assert.InDelta(t, 90, int(v), 1, "%s on a flat image", k)
		}
	}
}

func TestSharpenImpulse(t *testing.T) {
	img := uniform(5, 5, 0)
	img.SetRGB(2, 2, 100, 100, 100)

	out := mustApply(t, img, Sharpen, 1)
	r, g, b := out.RGBAt(2, 2)
	assert.Equal(t, []uint8{200, 200, 200}, []uint8{r, g, b}, "32/16 of the centre")

	// neighbours get -2/16 of the impulse, clamped at zero
	r, _, _ = out.RGBAt(2, 1)
	assert.Equal(t, uint8(0), r)
	r, _, _ = out.RGBAt(0, 0)
	assert.Equal(t, uint8(0), r)
}

func TestCustomReturnsCopy(t *testing.T) {
	src := gradient(4, 4)
	out := mustApply(t, src, Custom, 5)
	require.True(t, out.Equal(src))

	out.Pix[0] = ^out.Pix[0]
	assert.False(t, out.Equal(src))
}

func TestApplyFailureReturnsCopy(t *testing.T) {
	malformed := imaging.Image{Width: 3, Height: 3, Pix: []uint8{1, 2, 3}}

	out, err := Apply(malformed, Invert, 1)
	require.Error(t, err)
	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, Invert, terr.Kind)
	assert.ErrorIs(t, err, imaging.ErrMalformedBuffer)
	assert.Equal(t, malformed.Pix, out.Pix)

	src := gradient(3, 3)
	out, err = Apply(src, FilterKind(99), 1)
	assert.ErrorIs(t, err, ErrUnknownFilter)
	assert.True(t, out.Equal(src))

	_, err = Apply(imaging.Image{}, Blur, 1)
	assert.ErrorIs(t, err, imaging.ErrEmptyImage)
}
