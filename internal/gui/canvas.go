// Side by side display of the source and the processed image
package gui

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"image-filter-layers/internal/imaging"
)

// ImageCanvas shows the original on the left and the processed image on the
// right. Both are downscaled to maxSide before display.
type ImageCanvas struct {
	maxSide int

	split         *container.Split
	originalImage *canvas.Image
	previewImage  *canvas.Image
}

func NewImageCanvas(maxSide int) *ImageCanvas {
	ic := &ImageCanvas{maxSide: maxSide}
	ic.initializeUI()
	return ic
}

func (ic *ImageCanvas) initializeUI() {
	ic.originalImage = newDisplayImage()
	ic.previewImage = newDisplayImage()

	ic.split = container.NewHSplit(
		widget.NewCard("Original", "", ic.originalImage),
		widget.NewCard("Processed", "", ic.previewImage),
	)
	ic.split.SetOffset(0.5)
}

func placeholder() image.Image {
	p := image.NewRGBA(image.Rect(0, 0, 200, 150))
	draw.Draw(p, p.Bounds(), &image.Uniform{C: color.RGBA{240, 240, 240, 255}}, image.Point{}, draw.Src)
	return p
}

func newDisplayImage() *canvas.Image {
	img := canvas.NewImageFromImage(placeholder())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(200, 150))
	return img
}

func (ic *ImageCanvas) GetContainer() fyne.CanvasObject {
	return ic.split
}

func (ic *ImageCanvas) UpdateOriginal(img imaging.Image) {
	ic.show(ic.originalImage, img)
}

func (ic *ImageCanvas) UpdateProcessed(img imaging.Image) {
	ic.show(ic.previewImage, img)
}

// Clear puts the placeholders back.
func (ic *ImageCanvas) Clear() {
	ic.show(ic.originalImage, imaging.Image{})
	ic.show(ic.previewImage, imaging.Image{})
}

func (ic *ImageCanvas) show(target *canvas.Image, img imaging.Image) {
	if preview := imaging.Preview(img, ic.maxSide); preview != nil {
		target.Image = preview
	} else {
		target.Image = placeholder()
	}
	target.Refresh()
}
