// Menu handler for file and settings actions
package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"image-filter-layers/internal/io"
)

const fallbackExportName = "processed_image.png"

var settingsExtensions = []string{".json", ".yaml", ".yml"}

// MenuHandler handles menu actions
type MenuHandler struct {
	app    *Application
	window fyne.Window
}

func NewMenuHandler(app *Application, window fyne.Window) *MenuHandler {
	return &MenuHandler{
		app:    app,
		window: window,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Image...", mh.openImage),
		fyne.NewMenuItem("Save Image...", mh.saveImage),
		fyne.NewMenuItem("Close Image", mh.app.CloseImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Settings...", mh.loadSettings),
		fyne.NewMenuItem("Save Settings", mh.saveDefaultSettings),
		fyne.NewMenuItem("Save Settings As...", mh.saveSettings),
		// fyne appends Quit to the first menu
	)

	settingsMenu := fyne.NewMenu("Settings",
		fyne.NewMenuItem("Set Converter Path...", mh.setConverterPath),
		fyne.NewMenuItem("Reset Layers", mh.resetLayers),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Filters", mh.showFilters),
		fyne.NewMenuItem("Metrics", mh.showMetrics),
	)

	return fyne.NewMainMenu(fileMenu, settingsMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.app.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mh.app.LoadImageFromPath(path); err != nil {
			mh.app.showError("Failed to Load Image", err)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) saveImage() {
	if !mh.app.session.Images().HasImage() {
		mh.app.showError("No Image", fmt.Errorf("no image loaded to save"))
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.app.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := mh.app.SaveProcessedImage(path); err != nil {
			mh.app.showError("Failed to Save Image", err)
			return
		}
		mh.app.showInfo("Image Saved", fmt.Sprintf("Image saved to:\n%s", path))
	}, mh.window)

	name := fallbackExportName
	if base := mh.app.session.ExportName(); base != "" {
		name = base + ".png"
	}
	fileDialog.SetFileName(name)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) loadSettings() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.app.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mh.app.session.LoadSettings(path); err != nil {
			mh.app.showError("Failed to Load Settings", err)
			return
		}
		mh.app.refreshSettings()
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(settingsExtensions))
	mh.startInSettingsDir(fileDialog)
	fileDialog.Show()
}

// saveDefaultSettings writes to the file read at startup, so the next launch
// picks the stack up again.
func (mh *MenuHandler) saveDefaultSettings() {
	path := mh.app.cfg.SettingsPath()
	if err := mh.app.session.SaveSettings(path); err != nil {
		mh.app.showError("Failed to Save Settings", err)
		return
	}
	mh.app.updateStatus()
	mh.app.showInfo("Settings Saved", fmt.Sprintf("Settings saved to:\n%s", path))
}

func (mh *MenuHandler) saveSettings() {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.app.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := mh.app.session.SaveSettings(path); err != nil {
			mh.app.showError("Failed to Save Settings", err)
			return
		}
		mh.app.updateStatus()
	}, mh.window)

	name := mh.app.session.SettingsName()
	if name == "" {
		name = filepath.Base(mh.app.cfg.SettingsPath())
	}
	fileDialog.SetFileName(name)
	mh.startInSettingsDir(fileDialog)
	fileDialog.Show()
}

// startInSettingsDir opens the dialog where the startup settings file lives.
// The dialog keeps its own default when that directory cannot be listed.
func (mh *MenuHandler) startInSettingsDir(d *dialog.FileDialog) {
	dir := filepath.Dir(mh.app.cfg.SettingsPath())
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		mh.app.logger.WithField("dir", dir).WithError(err).Debug("Settings directory not listable")
		return
	}
	d.SetLocation(lister)
}

func (mh *MenuHandler) setConverterPath() {
	folderDialog := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			mh.app.showError("Folder Dialog Error", err)
			return
		}
		if uri == nil {
			return
		}
		mh.app.session.SetConverterPath(filepath.Clean(uri.Path()))
	}, mh.window)
	folderDialog.Show()
}

func (mh *MenuHandler) resetLayers() {
	next := mh.app.session.Settings()
	next.Layers.Reset()
	if err := mh.app.session.ApplySettings(next); err != nil {
		mh.app.showError("Reset Failed", err)
		return
	}
	mh.app.refreshSettings()
}

func (mh *MenuHandler) showFilters() {
	list := container.NewVBox()
	for _, name := range filterDescriptions() {
		list.Add(widget.NewLabel(name))
	}
	filterDialog := dialog.NewCustom("Filters", "Close", container.NewVScroll(list), mh.window)
	filterDialog.Resize(fyne.NewSize(480, 520))
	filterDialog.Show()
}

func (mh *MenuHandler) showMetrics() {
	list := container.NewVBox()
	for _, d := range mh.app.evaluator.Descriptors() {
		direction := "lower is closer to the source"
		if d.HigherIsBetter {
			direction = "higher is closer to the source"
		}
		label := widget.NewLabel(fmt.Sprintf("%s: %s (%s)", d.Name, d.Description, direction))
		label.Wrapping = fyne.TextWrapWord
		list.Add(label)
	}
	metricsDialog := dialog.NewCustom("Metrics", "Close", list, mh.window)
	metricsDialog.Resize(fyne.NewSize(420, 260))
	metricsDialog.Show()
}
