package layers

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/imaging"
)

func testImage() imaging.Image {
	img := imaging.New(8, 4)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 11)
	}
	return img
}

func TestDefaultStack(t *testing.T) {
	s := Default()
	count := 0
	for slot, l := range s.All() {
		count++
		assert.Equal(t, count, slot)
		assert.Equal(t, DefaultLayer(), l)
		assert.False(t, l.Enabled)
		assert.Equal(t, algorithms.Invert, l.Filter)
		assert.Equal(t, 1.0, l.Strength)
	}
	assert.Equal(t, SlotCount, count)
	assert.NoError(t, s.Validate())
	assert.Zero(t, s.EnabledCount())

	// read-only accessors work on values returned by other calls
	assert.Zero(t, Default().EnabledCount())
	l, ok := Default().Layer(3)
	assert.True(t, ok)
	assert.Equal(t, DefaultLayer(), l)
}

func TestReset(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetLayer(4, Layer{Enabled: true, Filter: algorithms.Blur, Strength: 3}))
	require.Equal(t, 1, s.EnabledCount())

	s.Reset()
	assert.Equal(t, Default(), s)
}

func TestSetLayerValidation(t *testing.T) {
	s := Default()

	tests := []struct {
		name  string
		slot  int
		layer Layer
		want  error
	}{
		{"slot zero", 0, DefaultLayer(), ErrSlotOutOfRange},
		{"slot six", 6, DefaultLayer(), ErrSlotOutOfRange},
		{"nan", 2, Layer{Filter: algorithms.Blur, Strength: math.NaN()}, ErrNonFiniteStrength},
		{"inf", 2, Layer{Filter: algorithms.Blur, Strength: math.Inf(-1)}, ErrNonFiniteStrength},
		{"unknown kind", 3, Layer{Filter: algorithms.FilterKind(40), Strength: 1}, algorithms.ErrUnknownFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetLayer(tt.slot, tt.layer)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.slot, verr.Slot)
		})
	}
	assert.Equal(t, Default(), s, "rejected mutations must not change the stack")

	require.NoError(t, s.SetLayer(4, Layer{Enabled: true, Filter: algorithms.Sepia, Strength: -3}))
	got, ok := s.Layer(4)
	require.True(t, ok)
	assert.Equal(t, Layer{Enabled: true, Filter: algorithms.Sepia, Strength: -3}, got)
}

func TestFieldSetters(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetEnabled(1, true))
	require.NoError(t, s.SetFilterName(1, "Posterize"))
	require.NoError(t, s.SetStrength(1, 3))

	l, _ := s.Layer(1)
	assert.Equal(t, Layer{Enabled: true, Filter: algorithms.Posterize, Strength: 3}, l)
	assert.Equal(t, 1, s.EnabledCount())

	assert.ErrorIs(t, s.SetFilterName(1, "Nope"), algorithms.ErrUnknownFilter)
	assert.ErrorIs(t, s.SetStrength(1, math.NaN()), ErrNonFiniteStrength)
	assert.ErrorIs(t, s.SetEnabled(9, true), ErrSlotOutOfRange)

	l, _ = s.Layer(1)
	assert.Equal(t, 3.0, l.Strength)
}

func TestSwap(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetLayer(1, Layer{Enabled: true, Filter: algorithms.Multiply, Strength: 0.5}))
	require.NoError(t, s.SetLayer(2, Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}))

	require.NoError(t, s.Swap(1, 2))
	first, _ := s.Layer(1)
	second, _ := s.Layer(2)
	assert.Equal(t, algorithms.Invert, first.Filter)
	assert.Equal(t, algorithms.Multiply, second.Filter)

	assert.ErrorIs(t, s.Swap(1, 7), ErrSlotOutOfRange)
}

func TestProcessIdentityWhenAllDisabled(t *testing.T) {
	src := testImage()
	s := Default()
	require.NoError(t, s.SetLayer(3, Layer{Enabled: false, Filter: algorithms.Emboss, Strength: 1}))

	res := Process(src, &s, nil)
	assert.True(t, res.Image.Equal(src))
	assert.Zero(t, res.Applied)
	assert.False(t, res.Failed())

	res.Image.Pix[0]++
	assert.False(t, res.Image.Equal(src), "result must not alias the source")
}

func TestProcessOrderSensitivity(t *testing.T) {
	src := imaging.Image{Width: 2, Height: 1, Pix: []uint8{0, 0, 0, 200, 200, 200}}

	a := Default()
	require.NoError(t, a.SetLayer(1, Layer{Enabled: true, Filter: algorithms.Multiply, Strength: 0.5}))
	require.NoError(t, a.SetLayer(2, Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}))

	b := a
	require.NoError(t, b.Swap(1, 2))

	ra := Process(src, &a, nil)
	rb := Process(src, &b, nil)
	assert.Equal(t, 2, ra.Applied)
	assert.False(t, ra.Image.Equal(rb.Image))
	assert.Equal(t, uint8(255), ra.Image.Pix[0])
	assert.Equal(t, uint8(127), rb.Image.Pix[0])
}

func TestProcessIsDeterministic(t *testing.T) {
	src := testImage()
	s := Default()
	require.NoError(t, s.SetLayer(2, Layer{Enabled: true, Filter: algorithms.Sharpen, Strength: 1}))
	require.NoError(t, s.SetLayer(5, Layer{Enabled: true, Filter: algorithms.Posterize, Strength: 3}))

	first := Process(src, &s, nil)
	second := Process(src, &s, nil)
	assert.True(t, first.Image.Equal(second.Image))
}

func TestProcessContinuesAfterFailingSlot(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := testImage()

	s := Default()
	s.slots[0] = Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}
	s.slots[1] = Layer{Enabled: true, Filter: algorithms.FilterKind(77), Strength: 1}
	s.slots[2] = Layer{Enabled: true, Filter: algorithms.Invert, Strength: 1}

	res := Process(src, &s, logger)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 2, res.Applied, "the failed slot is not counted")
	assert.True(t, res.Failed())
	assert.Equal(t, 2, res.Diagnostics[0].Slot)
	assert.ErrorIs(t, res.Diagnostics[0].Err, algorithms.ErrUnknownFilter)
	assert.True(t, res.Image.Equal(src), "failed slot is skipped, the two inverts cancel")

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 2, e.Data["slot"])
		}
	}
	assert.True(t, warned)
}
