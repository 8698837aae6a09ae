package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrPermissionDenied means microphone access could not be obtained
	// after an explicit request.
	ErrPermissionDenied = errors.New("audio: microphone permission denied")

	// ErrAlreadyRecording means a capture is already active.
	ErrAlreadyRecording = errors.New("audio: recording already in progress")
)

// Permissions grants or denies device capabilities after an explicit user
// prompt.
type Permissions interface {
	RequestMicrophone(ctx context.Context) bool
}

// Session manages at most one active audio capture and one active playback.
type Session struct {
	mu       sync.Mutex
	perms    Permissions
	dir      string
	log      *zap.SugaredLogger
	rec      *recorder
	player   *Player
	lastPath string
	assets   map[string][]byte
}

// NewSession creates a session storing recordings under dir.
func NewSession(perms Permissions, dir string, log *zap.SugaredLogger) *Session {
	return &Session{
		perms:  perms,
		dir:    dir,
		log:    log,
		assets: make(map[string][]byte),
	}
}

// RegisterAsset makes a bundled WAV sound playable under name.
func (s *Session) RegisterAsset(name string, wavData []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[name] = wavData
}

// StartRecording begins capture to a timestamped file. It fails with
// ErrAlreadyRecording while a capture is active and ErrPermissionDenied when
// the microphone cannot be obtained.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec != nil {
		return ErrAlreadyRecording
	}
	if !s.perms.RequestMicrophone(ctx) {
		return ErrPermissionDenied
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, time.Now().Format("20060102-150405")+".wav")
	rec, err := startRecorder(path, s.log)
	if err != nil {
		return err
	}
	s.rec = rec
	return nil
}

// StopRecording finalizes the active capture and returns the file path.
func (s *Session) StopRecording() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return "", errors.New("audio: no recording in progress")
	}
	path, err := s.rec.stop()
	s.rec = nil
	if err != nil {
		return "", err
	}
	s.lastPath = path
	return path, nil
}

// Recording reports whether a capture is active.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec != nil
}

// LastRecording returns the path of the most recently finished capture, or
// empty if none.
func (s *Session) LastRecording() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

// PlayFile begins playback of a WAV file. Playback failures are logged and
// otherwise ignored; the session state is unchanged by them.
func (s *Session) PlayFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warnf("playback failed, cannot read %s: %v", path, err)
		return
	}
	s.play(data, false)
}

// PlayAsset begins looped playback of a registered wake sound. Failures are
// logged and otherwise ignored.
func (s *Session) PlayAsset(name string) {
	s.mu.Lock()
	data, ok := s.assets[name]
	s.mu.Unlock()
	if !ok {
		s.log.Warnf("playback failed, unknown sound asset %q", name)
		return
	}
	s.play(data, true)
}

func (s *Session) play(wavData []byte, loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		s.player.Stop()
		s.player = nil
	}
	player, err := startPlayback(wavData, loop, s.log)
	if err != nil {
		s.log.Warnf("playback failed: %v", err)
		return
	}
	s.player = player
}

// StopPlayback stops the active playback, if any.
func (s *Session) StopPlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		s.player.Stop()
		s.player = nil
	}
}
