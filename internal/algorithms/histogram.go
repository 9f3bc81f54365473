// Histogram stretching used by Brightness, Contrast and AdaptiveThreshold
package algorithms

import (
	"math"

	"image-filter-layers/internal/imaging"
)

// autocontrast stretches each channel so its darkest retained value maps to 0
// and its brightest to 255. cutoff is the percentage of samples discarded from
// each tail before the extremes are located. A channel whose retained range
// collapses to a single value (or is cut away entirely) is left unchanged.
func autocontrast(img imaging.Image, cutoff float64) imaging.Image {
	if math.IsNaN(cutoff) || cutoff < 0 {
		cutoff = 0
	}

	var hist [imaging.Channels][256]float64
	for i, v := range img.Pix {
		hist[i%imaging.Channels][v]++
	}

	var tables [imaging.Channels]lut
	for c := range hist {
		tables[c] = stretchTable(&hist[c], cutoff)
	}
	return applyChannelLUTs(img, &tables)
}

func stretchTable(h *[256]float64, cutoff float64) lut {
	if cutoff > 0 {
		var n float64
		for _, count := range h {
			n += count
		}
		trimLow(h, math.Floor(n*cutoff/100))
		trimHigh(h, math.Floor(n*cutoff/100))
	}

	lo := 0
	for lo < 255 && h[lo] == 0 {
		lo++
	}
	hi := 255
	for hi > 0 && h[hi] == 0 {
		hi--
	}

	var table lut
	if hi <= lo {
		for i := range table {
			table[i] = uint8(i)
		}
		return table
	}

	scale := 255.0 / float64(hi-lo)
	offset := -float64(lo) * scale
	for i := range table {
		// truncation toward zero, then clamp
		table[i] = clampByte(math.Trunc(float64(i)*scale + offset))
	}
	return table
}

func trimLow(h *[256]float64, cut float64) {
	for i := 0; i < 256 && cut > 0; i++ {
		if cut > h[i] {
			cut -= h[i]
			h[i] = 0
		} else {
			h[i] -= cut
			cut = 0
		}
	}
}

func trimHigh(h *[256]float64, cut float64) {
	for i := 255; i >= 0 && cut > 0; i-- {
		if cut > h[i] {
			cut -= h[i]
			h[i] = 0
		} else {
			h[i] -= cut
			cut = 0
		}
	}
}
