// Layer panel: one card per slot with enable, filter and strength controls
package gui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/core"
	"image-filter-layers/internal/layers"
)

const (
	strengthMin  = 0.1
	strengthMax  = 10.0
	strengthStep = 0.1
)

// LayerPanel holds the five layer cards.
type LayerPanel struct {
	session *core.Session
	onError func(string, error)

	container *fyne.Container
	cards     [layers.SlotCount]*layerCard
}

type layerCard struct {
	slot    int
	panel   *LayerPanel
	syncing bool

	card      *widget.Card
	enabled   *widget.Check
	filter    *widget.Select
	strength  *widget.Slider
	value     *widget.Label
	moveUp    *widget.Button
	moveDown  *widget.Button
	hintLabel *widget.Label
}

func NewLayerPanel(session *core.Session, onError func(string, error)) *LayerPanel {
	lp := &LayerPanel{
		session:   session,
		onError:   onError,
		container: container.NewVBox(),
	}
	for i := range lp.cards {
		c := lp.newLayerCard(i + 1)
		lp.cards[i] = c
		lp.container.Add(c.card)
	}
	lp.Refresh()
	return lp
}

func (lp *LayerPanel) GetContainer() fyne.CanvasObject {
	return lp.container
}

// Refresh copies the live settings into every card.
func (lp *LayerPanel) Refresh() {
	for _, c := range lp.cards {
		c.sync()
	}
}

func (lp *LayerPanel) newLayerCard(slot int) *layerCard {
	c := &layerCard{slot: slot, panel: lp}

	c.enabled = widget.NewCheck("Enabled", func(on bool) {
		c.apply(func() error { return lp.session.SetEnabled(slot, on) })
	})

	c.filter = widget.NewSelect(algorithms.Names(), func(name string) {
		c.apply(func() error { return lp.session.SetFilter(slot, name) })
	})

	c.value = widget.NewLabel("")
	c.hintLabel = widget.NewLabel("")
	c.hintLabel.TextStyle = fyne.TextStyle{Italic: true}

	c.strength = widget.NewSlider(strengthMin, strengthMax)
	c.strength.Step = strengthStep
	c.strength.OnChanged = func(v float64) {
		c.value.SetText(formatStrength(v))
	}
	c.strength.OnChangeEnded = func(v float64) {
		c.apply(func() error { return lp.session.SetStrength(slot, roundStrength(v)) })
	}

	c.moveUp = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { lp.swap(slot, slot-1) })
	c.moveDown = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { lp.swap(slot, slot+1) })
	if slot == 1 {
		c.moveUp.Disable()
	}
	if slot == layers.SlotCount {
		c.moveDown.Disable()
	}

	header := container.NewBorder(nil, nil, c.enabled, container.NewHBox(c.moveUp, c.moveDown), c.filter)
	slider := container.NewBorder(nil, nil, widget.NewLabel("Strength"), c.value, c.strength)

	c.card = widget.NewCard(fmt.Sprintf("Layer %d", slot), "", container.NewVBox(header, slider, c.hintLabel))
	return c
}

func (lp *LayerPanel) swap(a, b int) {
	if err := lp.session.SwapLayers(a, b); err != nil {
		lp.onError("Swap Failed", err)
	}
	lp.Refresh()
}

// apply runs a session mutation triggered by a widget. Widget callbacks fired
// by sync are ignored. A rejected change restores the card from the session.
func (c *layerCard) apply(fn func() error) {
	if c.syncing {
		return
	}
	if err := fn(); err != nil {
		c.panel.onError(fmt.Sprintf("Layer %d", c.slot), err)
	}
	c.sync()
}

func (c *layerCard) sync() {
	l, ok := c.panel.session.Layer(c.slot)
	if !ok {
		return
	}

	c.syncing = true
	defer func() { c.syncing = false }()

	c.enabled.SetChecked(l.Enabled)
	c.filter.SetSelected(l.Filter.String())
	c.strength.SetValue(l.Strength)
	c.value.SetText(formatStrength(l.Strength))

	if l.Filter.UsesStrength() {
		c.hintLabel.SetText("")
	} else {
		c.hintLabel.SetText("Strength has no effect on this filter")
	}
}

func roundStrength(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatStrength(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func filterDescriptions() []string {
	kinds := algorithms.Kinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, fmt.Sprintf("%s: %s", k, k.Description()))
	}
	return out
}
