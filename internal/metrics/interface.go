// Comparison metrics between the source and the processed image
package metrics

import (
	"fmt"
	"sort"

	"image-filter-layers/internal/imaging"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed imaging.Image) (float64, error)

	GetName() string
	GetDescription() string

	// IsHigherBetter returns true if higher values mean closer to the source
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("changed", NewChangedRatio())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Descriptor describes a registered metric.
type Descriptor struct {
	Key            string
	Name           string
	Description    string
	HigherIsBetter bool
}

// Reading is one computed metric value.
type Reading struct {
	Descriptor
	Value float64
}

// Descriptors returns the registered metrics sorted by key.
func (e *Evaluator) Descriptors() []Descriptor {
	keys := make([]string, 0, len(e.metrics))
	for key := range e.metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		m := e.metrics[key]
		out = append(out, Descriptor{
			Key:            key,
			Name:           m.GetName(),
			Description:    m.GetDescription(),
			HigherIsBetter: m.IsHigherBetter(),
		})
	}
	return out
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(key string, original, processed imaging.Image) (float64, error) {
	metric, exists := e.metrics[key]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", key)
	}
	return metric.Calculate(original, processed)
}

// Evaluate computes every registered metric in key order, skipping the ones
// that fail.
func (e *Evaluator) Evaluate(original, processed imaging.Image) []Reading {
	var out []Reading
	for _, d := range e.Descriptors() {
		if value, err := e.metrics[d.Key].Calculate(original, processed); err == nil {
			out = append(out, Reading{Descriptor: d, Value: value})
		}
	}
	return out
}

func checkPair(original, processed imaging.Image) error {
	if err := original.Validate(); err != nil {
		return fmt.Errorf("original: %w", err)
	}
	if err := processed.Validate(); err != nil {
		return fmt.Errorf("processed: %w", err)
	}
	if !original.SameSize(processed) {
		return fmt.Errorf("image dimensions mismatch: %dx%d vs %dx%d",
			original.Width, original.Height, processed.Width, processed.Height)
	}
	return nil
}
