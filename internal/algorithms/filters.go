// Fixed convolution kernels for sharpening, blurring and edge filters
package algorithms

import (
	"fmt"

	"github.com/anthonynsimon/bild/convolution"

	"image-filter-layers/internal/imaging"
)

// kernel is a square integer kernel with a divisor and an additive offset,
// the classic form these filters are usually published in.
type kernel struct {
	size   int
	scale  float64
	offset float64
	values []float64
}

var (
	blurKernel = kernel{size: 5, scale: 16, values: []float64{
		1, 1, 1, 1, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 1, 1, 1, 1,
	}}
	detailKernel = kernel{size: 3, scale: 6, values: []float64{
		0, -1, 0,
		-1, 10, -1,
		0, -1, 0,
	}}
	edgeEnhanceKernel = kernel{size: 3, scale: 2, values: []float64{
		-1, -1, -1,
		-1, 10, -1,
		-1, -1, -1,
	}}
	embossKernel = kernel{size: 3, scale: 1, offset: 128, values: []float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}}
	findEdgesKernel = kernel{size: 3, scale: 1, values: []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}}
	sharpenKernel = kernel{size: 3, scale: 16, values: []float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}}
	smoothKernel = kernel{size: 3, scale: 13, values: []float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}}
)

func (k kernel) matrix() (*convolution.Kernel, error) {
	if k.size <= 0 || len(k.values) != k.size*k.size || k.scale == 0 {
		return nil, fmt.Errorf("invalid %dx%d kernel with %d values", k.size, k.size, len(k.values))
	}
	m := make([]float64, len(k.values))
	for i, v := range k.values {
		m[i] = v / k.scale
	}
	return &convolution.Kernel{Matrix: m, Width: k.size, Height: k.size}, nil
}

// convolve runs k over every channel. Borders are extended, alpha is left
// opaque.
func convolve(img imaging.Image, k kernel) (imaging.Image, error) {
	m, err := k.matrix()
	if err != nil {
		return imaging.Image{}, err
	}
	out := convolution.Convolve(img, m, &convolution.Options{
		Bias:      k.offset,
		Wrap:      false,
		KeepAlpha: true,
	})
	return imaging.FromImage(out), nil
}
