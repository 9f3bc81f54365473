// Status line, source details, comparison metrics and layer diagnostics
package gui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"image-filter-layers/internal/layers"
	"image-filter-layers/internal/metrics"
)

type InfoPanel struct {
	container *fyne.Container

	status      *widget.Label
	imageInfo   *widget.Label
	metrics     *widget.Label
	diagnostics *widget.Label
}

func NewInfoPanel() *InfoPanel {
	ip := &InfoPanel{}
	ip.initializeUI()
	return ip
}

func (ip *InfoPanel) initializeUI() {
	ip.status = widget.NewLabel("")
	ip.imageInfo = widget.NewLabel("No image loaded")
	ip.metrics = widget.NewLabel("")
	ip.diagnostics = widget.NewLabel("")
	ip.diagnostics.Wrapping = fyne.TextWrapWord
	ip.diagnostics.Importance = widget.DangerImportance

	ip.container = container.NewVBox(
		widget.NewSeparator(),
		ip.imageInfo,
		ip.metrics,
		ip.diagnostics,
		ip.status,
	)
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return ip.container
}

func (ip *InfoPanel) SetStatus(message string) {
	ip.status.SetText(message)
}

func (ip *InfoPanel) ShowImageInfo(path string, width, height int) {
	ip.imageInfo.SetText(fmt.Sprintf("%s (%dx%d)", filepath.Base(path), width, height))
}

// ClearImage forgets the source details and the last run.
func (ip *InfoPanel) ClearImage() {
	ip.imageInfo.SetText("No image loaded")
	ip.metrics.SetText("")
	ip.diagnostics.SetText("")
}

func (ip *InfoPanel) UpdateMetrics(readings []metrics.Reading) {
	parts := make([]string, 0, len(readings))
	for _, r := range readings {
		parts = append(parts, formatReading(r))
	}
	ip.metrics.SetText(strings.Join(parts, "\n"))
}

// formatReading renders "Name: value" with an arrow pointing the way that
// means closer to the source.
func formatReading(r metrics.Reading) string {
	arrow := "\u2193"
	if r.HigherIsBetter {
		arrow = "\u2191"
	}
	var value string
	switch {
	case math.IsInf(r.Value, 1):
		value = "identical"
	case r.Key == "psnr":
		value = fmt.Sprintf("%.2f dB", r.Value)
	case r.Key == "changed":
		value = fmt.Sprintf("%.1f%%", r.Value*100)
	default:
		value = fmt.Sprintf("%.2f", r.Value)
	}
	return fmt.Sprintf("%s %s: %s", arrow, r.Name, value)
}

// ShowDiagnostics lists the slots whose filter failed in the last run.
func (ip *InfoPanel) ShowDiagnostics(diags []layers.Diagnostic) {
	if len(diags) == 0 {
		ip.diagnostics.SetText("")
		return
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, fmt.Sprintf("Layer %d (%s) skipped: %v", d.Slot, d.Filter, d.Err))
	}
	ip.diagnostics.SetText(strings.Join(lines, "\n"))
}
