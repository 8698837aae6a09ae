package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// autostartKey is the preference controlling launch-at-login. Alarms can
// only fire while the process runs, so the tray surfaces this prominently.
const autostartKey = "auto_start"

func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "daybreak",
		DisplayName: "Daybreak",
		Exec:        []string{execPath},
	}

	if enable {
		if !app.IsEnabled() {
			return app.Enable()
		}
	} else {
		if app.IsEnabled() {
			return app.Disable()
		}
	}
	return nil
}
