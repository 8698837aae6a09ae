package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// wavFormat holds WAV file format information.
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

const wavHeaderSize = 44

// parseWAV reads a RIFF/WAVE file and returns its format and raw PCM data.
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	r := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, err
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errors.New("not a RIFF/WAVE file")
	}

	format := &wavFormat{}
	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(r, chunkID); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, nil, err
		}
		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, err
			}
			format.Channels = int(fmtChunk.NumChannels)
			format.SampleRate = int(fmtChunk.SampleRate)
			format.BitDepth = int(fmtChunk.BitsPerSample)
			// Skip any extra format bytes
			if extra := int64(chunkSize) - 16; extra > 0 {
				r.Seek(extra, io.SeekCurrent)
			}
		case "data":
			pcm := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, pcm); err != nil {
				return nil, nil, err
			}
			if format.SampleRate == 0 {
				return nil, nil, errors.New("data chunk before fmt chunk")
			}
			return format, pcm, nil
		default:
			r.Seek(int64(chunkSize), io.SeekCurrent)
		}
	}

	return nil, nil, errors.New("no data chunk found")
}

// writeWAVHeader writes a canonical 44-byte WAV header. dataSize may be zero
// while recording is in progress; finalizeWAV patches the sizes afterwards.
func writeWAVHeader(w io.Writer, format wavFormat, dataSize uint32) error {
	byteRate := format.SampleRate * format.Channels * format.BitDepth / 8
	blockAlign := format.Channels * format.BitDepth / 8

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(wavHeaderSize-8)+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(format.Channels))
	binary.Write(buf, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(format.BitDepth))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)

	_, err := w.Write(buf.Bytes())
	return err
}

// finalizeWAV patches the RIFF and data chunk sizes once capture has stopped.
func finalizeWAV(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	dataSize := uint32(info.Size() - wavHeaderSize)

	if _, err := f.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(wavHeaderSize-8)+dataSize); err != nil {
		return err
	}
	if _, err := f.Seek(40, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(f, binary.LittleEndian, dataSize)
}
