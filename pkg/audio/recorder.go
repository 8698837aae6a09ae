package audio

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// Capture format: 16-bit mono PCM at 44.1kHz.
var captureFormat = wavFormat{
	SampleRate: 44100,
	Channels:   1,
	BitDepth:   16,
}

// recorder captures microphone input to a WAV file through portaudio.
type recorder struct {
	stream *portaudio.Stream
	file   *os.File
	path   string
	log    *zap.SugaredLogger
}

func startRecorder(path string, log *zap.SugaredLogger) (*recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("no input device available: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := writeWAVHeader(file, captureFormat, 0); err != nil {
		file.Close()
		os.Remove(path)
		portaudio.Terminate()
		return nil, err
	}

	r := &recorder{file: file, path: path, log: log}

	params := portaudio.HighLatencyParameters(dev, nil)
	params.SampleRate = float64(captureFormat.SampleRate)
	params.Input.Channels = captureFormat.Channels
	params.FramesPerBuffer = 1024

	stream, err := portaudio.OpenStream(params, r.process)
	if err != nil {
		file.Close()
		os.Remove(path)
		portaudio.Terminate()
		return nil, fmt.Errorf("open capture stream: %w", err)
	}
	r.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		file.Close()
		os.Remove(path)
		portaudio.Terminate()
		return nil, fmt.Errorf("start capture stream: %w", err)
	}

	log.Infof("recording started: %s (device %s)", path, dev.Name)
	return r, nil
}

// process is the portaudio input callback; it appends raw samples to the file.
func (r *recorder) process(in []int16) {
	if err := binary.Write(r.file, binary.LittleEndian, in); err != nil {
		r.log.Warnf("failed to write audio data: %v", err)
	}
}

// stop finalizes the WAV file and releases the capture device.
func (r *recorder) stop() (string, error) {
	if err := r.stream.Stop(); err != nil {
		r.log.Warnf("failed to stop capture stream: %v", err)
	}
	if err := r.stream.Close(); err != nil {
		r.log.Warnf("failed to close capture stream: %v", err)
	}

	err := finalizeWAV(r.file)
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}

	if terr := portaudio.Terminate(); terr != nil {
		r.log.Warnf("failed to terminate portaudio: %v", terr)
	}

	if err != nil {
		return "", fmt.Errorf("finalize recording %s: %w", r.path, err)
	}
	r.log.Infof("recording finished: %s", r.path)
	return r.path, nil
}
