// Top toolbar with the most used file actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Toolbar struct {
	container *fyne.Container

	openBtn  *widget.Button
	saveBtn  *widget.Button
	resetBtn *widget.Button
}

// NewToolbar builds the toolbar on top of the menu actions so both stay in
// step.
func NewToolbar(mh *MenuHandler) *Toolbar {
	tb := &Toolbar{}

	tb.openBtn = widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), mh.openImage)
	tb.openBtn.Importance = widget.HighImportance
	tb.saveBtn = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), mh.saveImage)
	tb.resetBtn = widget.NewButtonWithIcon("Reset Layers", theme.ViewRefreshIcon(), mh.resetLayers)

	settings := widget.NewToolbar(
		widget.NewToolbarAction(theme.FileIcon(), mh.loadSettings),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), mh.saveSettings),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.HelpIcon(), mh.showFilters),
	)

	tb.container = container.NewHBox(tb.openBtn, tb.saveBtn, tb.resetBtn, widget.NewSeparator(), settings)
	tb.SetImageLoaded(false)
	return tb
}

func (tb *Toolbar) GetContainer() fyne.CanvasObject {
	return tb.container
}

// SetImageLoaded enables saving once a source image exists.
func (tb *Toolbar) SetImageLoaded(loaded bool) {
	if loaded {
		tb.saveBtn.Enable()
	} else {
		tb.saveBtn.Disable()
	}
}
