// Concrete implementations of comparison metrics
package metrics

import (
	"math"

	"image-filter-layers/internal/imaging"
)

// MSE is the mean squared error over all channels.
type MSE struct{}

func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Calculate(original, processed imaging.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func (m *MSE) GetName() string        { return "Mean Squared Error" }
func (m *MSE) GetDescription() string { return "Average squared channel difference" }
func (m *MSE) IsHigherBetter() bool   { return false }

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

func NewPSNR() *PSNR { return &PSNR{} }

func (p *PSNR) Calculate(original, processed imaging.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse == 0 {
		return math.Inf(1), nil // identical
	}
	return 20 * math.Log10(255/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string        { return "PSNR" }
func (p *PSNR) GetDescription() string { return "Peak signal-to-noise ratio in dB" }
func (p *PSNR) IsHigherBetter() bool   { return true }

// ChangedRatio is the fraction of pixels with at least one differing channel.
type ChangedRatio struct{}

func NewChangedRatio() *ChangedRatio { return &ChangedRatio{} }

func (c *ChangedRatio) Calculate(original, processed imaging.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	changed := 0
	for i := 0; i+2 < len(original.Pix); i += imaging.Channels {
		if original.Pix[i] != processed.Pix[i] ||
			original.Pix[i+1] != processed.Pix[i+1] ||
			original.Pix[i+2] != processed.Pix[i+2] {
			changed++
		}
	}
	return float64(changed) / float64(original.Width*original.Height), nil
}

func (c *ChangedRatio) GetName() string        { return "Changed Pixels" }
func (c *ChangedRatio) GetDescription() string { return "Fraction of pixels altered by the pipeline" }
func (c *ChangedRatio) IsHigherBetter() bool   { return false }

func meanSquaredError(a, b imaging.Image) float64 {
	var sum float64
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sum += d * d
	}
	return sum / float64(len(a.Pix))
}
