package main

import (
	"context"

	"github.com/gordonklaus/portaudio"
)

// desktopPermissions approximates the mobile permission gateway on desktop:
// microphone access is granted when a capture device is present and the
// audio subsystem can be opened.
type desktopPermissions struct{}

func (desktopPermissions) RequestMicrophone(ctx context.Context) bool {
	if err := portaudio.Initialize(); err != nil {
		return false
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	return err == nil && dev != nil
}
