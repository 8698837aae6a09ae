package main

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/daybreak-app/daybreak/pkg/health"
)

const appID = "com.daybreak-app.daybreak"

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()
	sugar := logger.Sugar()

	fyneApp := app.NewWithID(appID)

	dir := dataDir()
	a := newApp(fyneApp, health.NewFileSource(filepath.Join(dir, "sleep_samples.json")), dir, sugar)

	// Bundled wake sound, if installed alongside the app data.
	if data, err := os.ReadFile(filepath.Join(dir, "wake.wav")); err == nil {
		a.session.RegisterAsset(defaultWakeSound, data)
	}

	if err := a.startup(); err != nil {
		sugar.Fatalf("startup failed: %v", err)
	}

	a.run()
}

// dataDir returns the per-user directory holding recordings, the sleep
// sample file, and calendar exports.
func dataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "daybreak")
}
