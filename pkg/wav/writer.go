package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer emits a 32-bit PCM WAV file incrementally. The header is
// written up front with zero sizes and patched by Finalize, so the
// target must support seeking. Useful when the sample count is unknown
// until the stream ends.
type Writer struct {
	ws        io.WriteSeeker
	dataBytes uint32
	finalized bool
}

// NewWriter writes the header and returns a Writer ready for samples.
func NewWriter(ws io.WriteSeeker, channels, sampleRate int) (*Writer, error) {
	if _, err := ws.Write(Encode(nil, channels, sampleRate)); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	return &Writer{ws: ws}, nil
}

// WriteSamples appends interleaved samples to the data chunk.
func (w *Writer) WriteSamples(samples []int32) error {
	if w.finalized {
		return fmt.Errorf("write after Finalize")
	}
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(s))
	}
	if _, err := w.ws.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	w.dataBytes += uint32(len(buf))
	return nil
}

// Finalize patches the RIFF and data chunk sizes. The Writer accepts
// no further samples afterwards.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], 36+w.dataBytes)
	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to patch RIFF size: %w", err)
	}
	if _, err := w.ws.Write(sz[:]); err != nil {
		return fmt.Errorf("failed to patch RIFF size: %w", err)
	}

	binary.LittleEndian.PutUint32(sz[:], w.dataBytes)
	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("failed to patch data size: %w", err)
	}
	if _, err := w.ws.Write(sz[:]); err != nil {
		return fmt.Errorf("failed to patch data size: %w", err)
	}
	_, err := w.ws.Seek(0, io.SeekEnd)
	return err
}
