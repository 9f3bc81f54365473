// Main window: layer panel, before/after canvases and status line
package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-filter-layers/internal/config"
	"image-filter-layers/internal/core"
	"image-filter-layers/internal/io"
	"image-filter-layers/internal/layers"
	"image-filter-layers/internal/metrics"
)

const windowTitle = "Layered Image Filters"

// Application wires the session to the widgets. All methods run on the fyne
// UI goroutine.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger logrus.FieldLogger
	cfg    config.AppConfig

	session   *core.Session
	loader    *io.ImageLoader
	evaluator *metrics.Evaluator

	canvas      *ImageCanvas
	layerPanel  *LayerPanel
	infoPanel   *InfoPanel
	menuHandler *MenuHandler
	toolbar     *Toolbar
}

func NewApplication(app fyne.App, logger logrus.FieldLogger, cfg config.AppConfig, session *core.Session, loader *io.ImageLoader) *Application {
	window := app.NewWindow(windowTitle)
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()

	a := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		cfg:       cfg,
		session:   session,
		loader:    loader,
		evaluator: metrics.NewEvaluator(),
	}

	a.canvas = NewImageCanvas(cfg.PreviewMaxSize)
	a.layerPanel = NewLayerPanel(session, a.showError)
	a.infoPanel = NewInfoPanel()
	a.menuHandler = NewMenuHandler(a, window)
	a.toolbar = NewToolbar(a.menuHandler)

	a.setupLayout()
	a.setupCallbacks()
	a.updateStatus()

	return a
}

func (a *Application) setupLayout() {
	left := container.NewBorder(nil, a.infoPanel.GetContainer(), nil, nil,
		container.NewVScroll(a.layerPanel.GetContainer()))

	split := container.NewHSplit(left, a.canvas.GetContainer())
	split.SetOffset(0.3)

	content := container.NewBorder(
		container.NewVBox(a.toolbar.GetContainer(), widget.NewSeparator()),
		nil, nil, nil,
		split,
	)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	a.session.SetCallbacks(func(res layers.Result) {
		if processed, ok := a.session.Images().Processed(); ok {
			a.canvas.UpdateProcessed(processed)
		}
		a.infoPanel.ShowDiagnostics(res.Diagnostics)

		if original, ok := a.session.Images().Original(); ok {
			a.infoPanel.UpdateMetrics(a.evaluator.Evaluate(original, res.Image))
		}
		a.updateStatus()
	})
}

// LoadImageFromPath reads path and makes it the new source image.
func (a *Application) LoadImageFromPath(path string) error {
	img, err := a.loader.LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	a.canvas.UpdateOriginal(img)
	if _, err := a.session.SetSource(img, path); err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}

	a.window.SetTitle(fmt.Sprintf("%s - %s", windowTitle, filepath.Base(path)))
	a.toolbar.SetImageLoaded(true)
	a.infoPanel.ShowImageInfo(path, img.Width, img.Height)
	return nil
}

// CloseImage drops the source image and resets the displays.
func (a *Application) CloseImage() {
	a.session.CloseImage()
	a.canvas.Clear()
	a.toolbar.SetImageLoaded(false)
	a.infoPanel.ClearImage()
	a.window.SetTitle(windowTitle)
	a.updateStatus()
}

// SaveProcessedImage writes the current processed image to path.
func (a *Application) SaveProcessedImage(path string) error {
	processed, ok := a.session.Images().Processed()
	if !ok {
		return core.ErrNoImage
	}
	if err := a.loader.SaveImage(processed, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// refreshSettings pushes the live settings back into the widgets after a
// bulk change such as loading a settings file.
func (a *Application) refreshSettings() {
	a.layerPanel.Refresh()
	a.updateStatus()
}

func (a *Application) updateStatus() {
	stack := a.session.Settings().Layers
	name := a.session.SettingsName()
	if name == "" {
		name = "unsaved"
	}
	a.infoPanel.SetStatus(fmt.Sprintf("Settings: %s | %d of %d layers active",
		name, stack.EnabledCount(), layers.SlotCount))
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")
	a.window.ShowAndRun()
}

func (a *Application) showError(title string, err error) {
	report := core.Classify(err)
	a.logger.WithFields(logrus.Fields{
		"kind": report.Kind.String(),
	}).WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.infoPanel.SetStatus(fmt.Sprintf("Error: %s", report.Message))
}

func (a *Application) showInfo(title, message string) {
	a.logger.WithField("message", message).Info(title)
	dialog.ShowInformation(title, message, a.window)
}
