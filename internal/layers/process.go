package layers

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/imaging"
)

// Diagnostic records a slot whose filter failed. The slot was skipped and the
// pipeline continued with the image it had before that slot.
type Diagnostic struct {
	Slot   int
	Filter algorithms.FilterKind
	Err    error
}

// Result is the outcome of one full pipeline run.
type Result struct {
	Image       imaging.Image
	Diagnostics []Diagnostic
	Applied     int // slots whose filter succeeded
	Duration    time.Duration
}

// Failed reports whether any slot fell back to its input.
func (r Result) Failed() bool { return len(r.Diagnostics) > 0 }

// Process recomputes the processed image from source: every enabled slot, in
// ascending order, replaces the working image with its filter output. Nothing
// is cached between runs. When no slot is enabled the result equals source.
func Process(source imaging.Image, stack *Stack, logger logrus.FieldLogger) Result {
	if logger == nil {
		logger = discardLogger()
	}
	start := time.Now()

	working := source.Clone()
	var res Result
	for slot, layer := range stack.All() {
		if !layer.Enabled {
			continue
		}

		out, err := algorithms.Apply(working, layer.Filter, layer.Strength)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"slot":     slot,
				"filter":   layer.Filter.String(),
				"strength": layer.Strength,
				"error":    err,
			}).Warn("PIPELINE: Filter failed, keeping previous image for this slot")
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Slot: slot, Filter: layer.Filter, Err: err})
			continue
		}
		working = out
		res.Applied++
	}

	res.Image = working
	res.Duration = time.Since(start)
	logger.WithFields(logrus.Fields{
		"applied":     res.Applied,
		"failed":      len(res.Diagnostics),
		"width":       working.Width,
		"height":      working.Height,
		"duration_ms": res.Duration.Milliseconds(),
	}).Debug("PIPELINE: Recompute finished")
	return res
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
