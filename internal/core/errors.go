package core

import (
	"errors"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/config"
	"image-filter-layers/internal/layers"
)

var ErrNoImage = errors.New("no source image loaded")

// Kind classifies an error for the presentation layer.
type Kind int

const (
	KindNone Kind = iota
	KindConfigDecode
	KindTransform
	KindValidation
	KindState
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfigDecode:
		return "config_decode"
	case KindTransform:
		return "transform"
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindIO:
		return "io"
	}
	return "unknown"
}

// Report is the structured form of an operation result.
type Report struct {
	Kind    Kind
	Message string
}

// OK reports success.
func (r Report) OK() bool { return r.Kind == KindNone }

// Classify maps err onto a Report. A nil error yields KindNone.
func Classify(err error) Report {
	if err == nil {
		return Report{Kind: KindNone}
	}

	var (
		decodeErr     *config.DecodeError
		validationErr *layers.ValidationError
		transformErr  *algorithms.TransformError
	)
	kind := KindIO
	switch {
	case errors.As(err, &decodeErr):
		kind = KindConfigDecode
	case errors.As(err, &validationErr):
		kind = KindValidation
	case errors.As(err, &transformErr):
		kind = KindTransform
	case errors.Is(err, ErrNoImage):
		kind = KindState
	}
	return Report{Kind: kind, Message: err.Error()}
}
