// RGB pixel buffer shared by the filter registry, the executor and the loaders
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Channels is the fixed channel count of every buffer (R, G, B).
const Channels = 3

var (
	ErrEmptyImage      = errors.New("image is empty")
	ErrMalformedBuffer = errors.New("malformed pixel buffer")
)

// Image is a row-major 8-bit RGB buffer. Pixel (x, y) channel c lives at
// Pix[(y*Width+x)*3+c]. Values are treated as immutable once handed to a
// filter; every transform returns a fresh buffer.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a black image of the given dimensions.
func New(width, height int) Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Validate checks that the dimensions are positive and agree with the
// length of the pixel slice.
func (img Image) Validate() error {
	if img.Width < 0 || img.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrMalformedBuffer, img.Width, img.Height)
	}
	if img.Width == 0 || img.Height == 0 {
		return ErrEmptyImage
	}
	if want := img.Width * img.Height * Channels; len(img.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrMalformedBuffer, img.Width, img.Height, want, len(img.Pix))
	}
	return nil
}

// Empty reports whether the image holds no pixels.
func (img Image) Empty() bool {
	return img.Width == 0 || img.Height == 0 || len(img.Pix) == 0
}

// Clone returns a deep copy. Malformed buffers are copied as they are.
func (img Image) Clone() Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return Image{Width: img.Width, Height: img.Height, Pix: pix}
}

// Equal reports whether both images have the same dimensions and pixels.
func (img Image) Equal(other Image) bool {
	if img.Width != other.Width || img.Height != other.Height || len(img.Pix) != len(other.Pix) {
		return false
	}
	for i := range img.Pix {
		if img.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// SameSize reports whether both images share dimensions.
func (img Image) SameSize(other Image) bool {
	return img.Width == other.Width && img.Height == other.Height
}

func (img Image) offset(x, y int) int {
	return (y*img.Width + x) * Channels
}

// RGBAt returns the channels of pixel (x, y).
func (img Image) RGBAt(x, y int) (r, g, b uint8) {
	i := img.offset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// SetRGB writes pixel (x, y).
func (img Image) SetRGB(x, y int, r, g, b uint8) {
	i := img.offset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// ColorModel implements image.Image.
func (img Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (img Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.Width, img.Height) }

// At implements image.Image. Pixels are always opaque.
func (img Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return color.RGBA{}
	}
	r, g, b := img.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ToRGBA converts the buffer to an opaque *image.RGBA for display and encoding.
func (img Image) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	for p, d := 0, 0; p+2 < len(img.Pix) && d+3 < len(dst.Pix); p, d = p+Channels, d+4 {
		dst.Pix[d] = img.Pix[p]
		dst.Pix[d+1] = img.Pix[p+1]
		dst.Pix[d+2] = img.Pix[p+2]
		dst.Pix[d+3] = 0xff
	}
	return dst
}

// FromImage copies any image.Image into an RGB buffer. Alpha is dropped after
// un-premultiplying, so translucent pixels keep their hue.
func FromImage(src image.Image) Image {
	if src == nil {
		return Image{}
	}
	switch s := src.(type) {
	case Image:
		return s.Clone()
	case *Image:
		if s == nil {
			return Image{}
		}
		return s.Clone()
	case *image.RGBA:
		return fromRGBA(s)
	}

	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetRGB(x, y, c.R, c.G, c.B)
		}
	}
	return out
}

// fromRGBA copies the colour channels of an RGBA image. Convolution output is
// always written with opaque alpha, so no un-premultiplying is needed.
func fromRGBA(src *image.RGBA) Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		row := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < out.Width; x++ {
			s := row + x*4
			out.SetRGB(x, y, src.Pix[s], src.Pix[s+1], src.Pix[s+2])
		}
	}
	return out
}
