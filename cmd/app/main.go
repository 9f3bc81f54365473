// Layered Image Filters - five-slot filter chain with live preview

package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"image-filter-layers/internal/config"
	"image-filter-layers/internal/core"
	"image-filter-layers/internal/gui"
	"image-filter-layers/internal/io"
	"image-filter-layers/internal/metrics"
)

const (
	AppName    = "Layered Image Filters"
	AppID      = "com.example.image-filter-layers"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configFile := flag.String("config", "", "Path to a TOML application config")
	settingsFile := flag.String("settings", "", "Layer settings file (.json or .yaml)")
	inputFile := flag.String("input", "", "Process this image without opening a window")
	outputFile := flag.String("output", "", "Output path for -input (default: generated name next to the input)")
	flag.Parse()

	cfg, cfgErr := config.LoadAppConfig(*configFile)
	if *settingsFile != "" {
		cfg.SettingsFile = *settingsFile
	}

	logger := initLogger(*debugMode, cfg)
	if cfgErr != nil {
		logger.WithError(cfgErr).Warn("Using default application config")
	}
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"headless":   *inputFile != "",
	}).Info("Starting " + AppName)

	session := core.NewSession(logger)
	if err := loadSettings(session, cfg); err != nil {
		logger.WithError(err).Error("Settings not loaded, using defaults")
		if *inputFile != "" {
			os.Exit(1)
		}
	}

	loader := io.NewImageLoader(logger)

	if *inputFile != "" {
		if err := runHeadless(session, loader, *inputFile, *outputFile, logger); err != nil {
			report := core.Classify(err)
			logger.WithField("kind", report.Kind.String()).WithError(err).Error("Processing failed")
			os.Exit(1)
		}
		return
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetIcon(theme.DocumentIcon())

	mainApp := gui.NewApplication(fyneApp, logger, cfg, session, loader)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}

// loadSettings loads the configured settings file. The default file next to
// the executable may be absent; an explicitly named one must exist.
func loadSettings(session *core.Session, cfg config.AppConfig) error {
	path := cfg.SettingsPath()
	if cfg.SettingsFile != "" {
		return session.LoadSettings(path)
	}
	return session.LoadDefaultSettings(path)
}

func runHeadless(session *core.Session, loader *io.ImageLoader, input, output string, logger logrus.FieldLogger) error {
	img, err := loader.LoadImage(input)
	if err != nil {
		return err
	}

	res, err := session.SetSource(img, input)
	if err != nil {
		return err
	}

	if output == "" {
		output = filepath.Join(filepath.Dir(input), session.ExportName()+".png")
		if filepath.Clean(output) == filepath.Clean(input) {
			output = filepath.Join(filepath.Dir(input), session.ExportName()+"_processed.png")
		}
	}
	if err := loader.SaveImage(res.Image, output); err != nil {
		return err
	}

	fields := logrus.Fields{
		"input":       input,
		"output":      output,
		"applied":     res.Applied,
		"failed":      len(res.Diagnostics),
		"duration_ms": res.Duration.Milliseconds(),
	}
	for _, r := range metrics.NewEvaluator().Evaluate(img, res.Image) {
		// JSON output cannot carry +Inf
		if !math.IsInf(r.Value, 0) {
			fields[r.Key] = r.Value
		}
	}
	logger.WithFields(fields).Info("Image processed")

	if res.Failed() {
		fmt.Fprintf(os.Stderr, "%d layer(s) failed and were skipped\n", len(res.Diagnostics))
	}
	return nil
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool, cfg config.AppConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
		return logger
	}

	logger.SetLevel(cfg.Level())
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
