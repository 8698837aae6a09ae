package main

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/daybreak-app/daybreak/pkg/audio"
	"github.com/daybreak-app/daybreak/pkg/notify"
)

// defaultWakeSound is the asset name used when an alarm has no sound of its
// own.
const defaultWakeSound = "wake"

// desktopDeliverer presents due alarm notifications through the desktop
// notification center and plays the wake sound.
type desktopDeliverer struct {
	app     fyne.App
	session *audio.Session
	log     *zap.SugaredLogger
}

func (d *desktopDeliverer) Deliver(req notify.Request) {
	d.app.SendNotification(fyne.NewNotification(req.Title, req.Body))

	asset := req.Sound
	if asset == "" {
		asset = defaultWakeSound
	}
	d.session.PlayAsset(asset)
}

var _ notify.Deliverer = (*desktopDeliverer)(nil)
