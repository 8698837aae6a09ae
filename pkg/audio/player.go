package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// Global audio context singleton. oto supports exactly one context per
// process, configured for the first sound played.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// Player manages one sound playback with cancellation support.
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
	log      *zap.SugaredLogger
}

func initAudioContext(format *wavFormat, log *zap.SugaredLogger) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Errorf("failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Info("audio context initialized")
	})
}

// startPlayback decodes wavData and begins playing it, looping until Stop
// when loop is true.
func startPlayback(wavData []byte, loop bool, log *zap.SugaredLogger) (*Player, error) {
	format, pcm, err := parseWAV(wavData)
	if err != nil {
		return nil, fmt.Errorf("parse wav: %w", err)
	}

	initAudioContext(format, log)
	if !audioCtxReady || globalAudioCtx == nil {
		return nil, fmt.Errorf("audio context not ready")
	}

	p := &Player{
		stopChan: make(chan struct{}),
		log:      log,
	}
	go p.playLoop(pcm, loop)
	return p, nil
}

func (p *Player) playLoop(pcm []byte, loop bool) {
	for {
		p.player = globalAudioCtx.NewPlayer(bytes.NewReader(pcm))
		p.player.Play()

		for p.player.IsPlaying() {
			select {
			case <-p.stopChan:
				p.player.Pause()
				p.player.Close()
				return
			case <-time.After(10 * time.Millisecond):
				// Continue checking
			}
		}

		if err := p.player.Close(); err != nil {
			p.log.Warnf("failed to close audio player: %v", err)
		}

		if !loop {
			return
		}
		select {
		case <-p.stopChan:
			return
		default:
			// Loop again
		}
	}
}

// Stop halts playback. Safe to call on a nil or already stopped player.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
		if p.player != nil {
			p.player.Pause()
		}
	}
}
