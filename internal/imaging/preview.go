package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Preview returns an RGBA copy of img whose longer side is at most maxSide.
// Images already within the limit, or a non-positive limit, are converted
// without resampling. An empty image has no preview and yields nil.
func Preview(img Image, maxSide int) *image.RGBA {
	if img.Empty() {
		return nil
	}
	src := img.ToRGBA()
	w, h := img.Width, img.Height
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	var dw, dh int
	if w >= h {
		dw = maxSide
		dh = max(1, h*maxSide/w)
	} else {
		dh = maxSide
		dw = max(1, w*maxSide/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
