// Filter registry: the closed set of layer transforms and their dispatch
package algorithms

import (
	"errors"
	"fmt"
	"strings"

	"image-filter-layers/internal/imaging"
)

// FilterKind identifies one of the layer transforms.
type FilterKind int

const (
	Invert FilterKind = iota
	Multiply
	Brightness
	Contrast
	Sharpen
	Blur
	Grayscale
	Sepia
	Posterize
	Solarize
	EdgeDetect
	Emboss
	EdgeEnhance
	Detail
	Smooth
	Binarize
	GammaCorrection
	AdaptiveThreshold
	ColorBoost
	Custom

	kindCount
)

// DefaultKind is the filter a fresh layer slot starts with.
const DefaultKind = Invert

// ErrUnknownFilter is returned when a filter identifier cannot be resolved.
var ErrUnknownFilter = errors.New("unknown filter")

// KindInfo describes a filter for menus and documentation.
type KindInfo struct {
	Name         string
	Description  string
	UsesStrength bool
}

var kindInfo = [kindCount]KindInfo{
	Invert:            {"Invert", "Per-channel negative (255 - v)", false},
	Multiply:          {"Multiply", "Multiply by a constant gray of 255*strength", true},
	Brightness:        {"Brightness", "Autocontrast trimming strength*10 percent from each histogram tail", true},
	Contrast:          {"Contrast", "Full-range autocontrast", false},
	Sharpen:           {"Sharpen", "Sharpening convolution", false},
	Blur:              {"Blur", "5x5 box-ring blur", false},
	Grayscale:         {"Grayscale", "Luma replicated to three channels", false},
	Sepia:             {"Sepia", "Luma mapped through a three-tone sepia curve", false},
	Posterize:         {"Posterize", "Keep round(strength) bits per channel (1..8)", true},
	Solarize:          {"Solarize", "Invert pixels above strength*255", true},
	EdgeDetect:        {"EdgeDetect", "Laplacian edge detection", false},
	Emboss:            {"Emboss", "Emboss relief around mid gray", false},
	EdgeEnhance:       {"EdgeEnhance", "Edge enhancement convolution", false},
	Detail:            {"Detail", "Detail enhancement convolution", false},
	Smooth:            {"Smooth", "Weighted 3x3 smoothing", false},
	Binarize:          {"Binarize", "Luma threshold at 128", false},
	GammaCorrection:   {"GammaCorrection", "Per-channel gamma with exponent 1/strength", true},
	AdaptiveThreshold: {"AdaptiveThreshold", "Not implemented yet, behaves as Contrast", false},
	ColorBoost:        {"ColorBoost", "Scale saturation by strength", true},
	Custom:            {"Custom", "Unmodified copy", false},
}

// Names used by settings files written before the canonical identifiers.
var legacyNames = map[string]FilterKind{
	"Negativ":        Invert,
	"Multiplikation": Multiply,
	"Helligkeit":     Brightness,
}

// Kinds returns every filter in menu order.
func Kinds() []FilterKind {
	kinds := make([]FilterKind, 0, kindCount)
	for k := FilterKind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Names returns the canonical identifiers in menu order.
func Names() []string {
	names := make([]string, 0, kindCount)
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return names
}

// Valid reports whether k is a member of the enumeration.
func (k FilterKind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k FilterKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
	return kindInfo[k].Name
}

// Info returns the descriptive record for k.
func (k FilterKind) Info() KindInfo {
	if !k.Valid() {
		return KindInfo{Name: k.String()}
	}
	return kindInfo[k]
}

func (k FilterKind) Description() string { return k.Info().Description }

// UsesStrength reports whether the strength value changes the output.
func (k FilterKind) UsesStrength() bool {
	return k.Info().UsesStrength
}

// ParseFilterKind resolves a canonical identifier, a legacy identifier, or a
// case-insensitive spelling of a canonical one.
func ParseFilterKind(name string) (FilterKind, error) {
	for k := FilterKind(0); k < kindCount; k++ {
		if kindInfo[k].Name == name {
			return k, nil
		}
	}
	if k, ok := legacyNames[name]; ok {
		return k, nil
	}
	trimmed := strings.TrimSpace(name)
	for k := FilterKind(0); k < kindCount; k++ {
		if strings.EqualFold(kindInfo[k].Name, trimmed) {
			return k, nil
		}
	}
	return DefaultKind, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// TransformError reports a filter that could not be applied. The caller still
// receives an unmodified copy of the input alongside it.
type TransformError struct {
	Kind FilterKind
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("filter %s failed: %v", e.Kind, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Apply runs one filter over input and returns a new image of the same
// dimensions. It never modifies input. When the filter cannot be computed the
// result is a copy of input together with a *TransformError.
func Apply(input imaging.Image, kind FilterKind, strength float64) (out imaging.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = input.Clone()
			err = &TransformError{Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if verr := input.Validate(); verr != nil {
		return input.Clone(), &TransformError{Kind: kind, Err: verr}
	}

	result, terr := transform(input, kind, strength)
	if terr != nil {
		return input.Clone(), &TransformError{Kind: kind, Err: terr}
	}
	if !result.SameSize(input) || result.Validate() != nil {
		return input.Clone(), &TransformError{
			Kind: kind,
			Err: fmt.Errorf("result %dx%d does not match input %dx%d",
				result.Width, result.Height, input.Width, input.Height),
		}
	}
	return result, nil
}

func transform(img imaging.Image, kind FilterKind, strength float64) (imaging.Image, error) {
	switch kind {
	case Invert:
		return invert(img), nil
	case Multiply:
		return multiply(img, strength), nil
	case Brightness:
		return autocontrast(img, strength*10), nil
	case Contrast:
		return autocontrast(img, 0), nil
	case Sharpen:
		return convolve(img, sharpenKernel)
	case Blur:
		return convolve(img, blurKernel)
	case Grayscale:
		return grayscale(img), nil
	case Sepia:
		return sepia(img), nil
	case Posterize:
		return posterize(img, strength), nil
	case Solarize:
		return solarize(img, strength), nil
	case EdgeDetect:
		return convolve(img, findEdgesKernel)
	case Emboss:
		return convolve(img, embossKernel)
	case EdgeEnhance:
		return convolve(img, edgeEnhanceKernel)
	case Detail:
		return convolve(img, detailKernel)
	case Smooth:
		return convolve(img, smoothKernel)
	case Binarize:
		return binarize(img), nil
	case GammaCorrection:
		return gamma(img, strength), nil
	case AdaptiveThreshold:
		// TODO: replace with a local-mean threshold once the window size and
		// offset it should expose through a single strength value are agreed.
		return autocontrast(img, 0), nil
	case ColorBoost:
		return colorBoost(img, strength), nil
	case Custom:
		return img.Clone(), nil
	}
	return imaging.Image{}, fmt.Errorf("%w: %s", ErrUnknownFilter, kind)
}
