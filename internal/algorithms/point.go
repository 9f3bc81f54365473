// Per-pixel filters driven by lookup tables and luma
package algorithms

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"image-filter-layers/internal/imaging"
)

type lut [256]uint8

// applyLUT maps every channel of every pixel through table.
func applyLUT(img imaging.Image, table *lut) imaging.Image {
	out := imaging.Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	for i, v := range img.Pix {
		out.Pix[i] = table[v]
	}
	return out
}

// applyChannelLUTs maps channel c through tables[c].
func applyChannelLUTs(img imaging.Image, tables *[imaging.Channels]lut) imaging.Image {
	out := imaging.Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	for i, v := range img.Pix {
		out.Pix[i] = tables[i%imaging.Channels][v]
	}
	return out
}

// mapLuma replaces every pixel with fn(luma).
func mapLuma(img imaging.Image, fn func(l uint8) (r, g, b uint8)) imaging.Image {
	out := imaging.Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	for i := 0; i+2 < len(img.Pix); i += imaging.Channels {
		r, g, b := fn(luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2]))
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = r, g, b
	}
	return out
}

// luma is the ITU-R 601-2 transform in 16-bit fixed point.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// mulDiv255 computes round(a*b/255) without division.
func mulDiv255(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8(((t >> 8) + t) >> 8)
}

func clampByte(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func roundByte(v float64) uint8 {
	if math.IsInf(v, 1) {
		return 255
	}
	return clampByte(math.Round(v))
}

func clampInt(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v) || v < float64(lo):
		return lo
	case v > float64(hi):
		return hi
	}
	return int(v)
}

func invert(img imaging.Image) imaging.Image {
	var table lut
	for i := range table {
		table[i] = 255 - uint8(i)
	}
	return applyLUT(img, &table)
}

// multiply darkens by a flat gray overlay of 255*strength.
func multiply(img imaging.Image, strength float64) imaging.Image {
	overlay := clampByte(math.Trunc(255 * strength))
	var table lut
	for i := range table {
		table[i] = mulDiv255(uint8(i), overlay)
	}
	return applyLUT(img, &table)
}

func posterize(img imaging.Image, strength float64) imaging.Image {
	bits := clampInt(math.RoundToEven(strength), 1, 8)
	mask := ^uint8(1<<(8-bits) - 1)
	var table lut
	for i := range table {
		table[i] = uint8(i) & mask
	}
	return applyLUT(img, &table)
}

// solarize inverts values strictly above the threshold. Strengths above 1
// pin the threshold at 255, which leaves the image unchanged.
func solarize(img imaging.Image, strength float64) imaging.Image {
	threshold := 255.0
	if strength <= 1 {
		threshold = strength * 255
	}
	var table lut
	for i := range table {
		if float64(i) > threshold {
			table[i] = 255 - uint8(i)
		} else {
			table[i] = uint8(i)
		}
	}
	return applyLUT(img, &table)
}

// gamma applies v' = 255*(v/255)^(1/g). A zero exponent means identity.
func gamma(img imaging.Image, strength float64) imaging.Image {
	g := strength
	if g == 0 {
		g = 1
	}
	var table lut
	for i := range table {
		table[i] = roundByte(255 * math.Pow(float64(i)/255, 1/g))
	}
	return applyLUT(img, &table)
}

func grayscale(img imaging.Image) imaging.Image {
	return mapLuma(img, func(l uint8) (uint8, uint8, uint8) { return l, l, l })
}

func binarize(img imaging.Image) imaging.Image {
	return mapLuma(img, func(l uint8) (uint8, uint8, uint8) {
		if l >= 128 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
}

var (
	sepiaShadow    = colorful.Color{R: 0.169, G: 0.102, B: 0.055}
	sepiaMidtone   = colorful.Color{R: 0.667, G: 0.502, B: 0.337}
	sepiaHighlight = colorful.Color{R: 1.000, G: 0.961, B: 0.894}

	sepiaCurve = buildSepiaCurve()
)

// buildSepiaCurve blends shadow->midtone over the lower half of the luma
// range and midtone->highlight over the upper half.
func buildSepiaCurve() [256][3]uint8 {
	var curve [256][3]uint8
	for i := range curve {
		t := float64(i) / 255
		var c colorful.Color
		if t < 0.5 {
			c = sepiaShadow.BlendRgb(sepiaMidtone, t*2)
		} else {
			c = sepiaMidtone.BlendRgb(sepiaHighlight, (t-0.5)*2)
		}
		r, g, b := c.Clamped().RGB255()
		curve[i] = [3]uint8{r, g, b}
	}
	return curve
}

func sepia(img imaging.Image) imaging.Image {
	return mapLuma(img, func(l uint8) (uint8, uint8, uint8) {
		tone := sepiaCurve[l]
		return tone[0], tone[1], tone[2]
	})
}

// colorBoost blends from the luma gray of each pixel towards the pixel by
// factor, so 0 is grayscale, 1 is unchanged and >1 oversaturates.
func colorBoost(img imaging.Image, factor float64) imaging.Image {
	out := imaging.Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	for i := 0; i+2 < len(img.Pix); i += imaging.Channels {
		gray := float64(luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2]))
		for c := 0; c < imaging.Channels; c++ {
			v := float64(img.Pix[i+c])
			out.Pix[i+c] = roundByte(gray + factor*(v-gray))
		}
	}
	return out
}
