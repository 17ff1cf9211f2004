// Package wav reads and writes RIFF/WAVE PCM files. It is a pure
// bytes-level codec: no resampling, no compression, no streaming.
package wav

import (
	"encoding/binary"
	"fmt"
)

const headerSize = 44

// File is a decoded PCM WAV file. Samples are interleaved and kept at
// their native bit depth: a 16-bit file yields values in ±32767, a
// 24-bit file ±8388607, a 32-bit file the full int32 range.
type File struct {
	SampleRate int
	Channels   int
	Bits       int
	Samples    []int32
}

// Encode builds a complete 32-bit PCM WAV file from interleaved
// samples.
func Encode(samples []int32, channels, sampleRate int) []byte {
	dataSize := uint32(len(samples) * 4)
	out := make([]byte, headerSize+int(dataSize))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+dataSize)
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // integer PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	byteRate := uint32(sampleRate * channels * 4)
	binary.LittleEndian.PutUint32(out[28:32], byteRate)
	binary.LittleEndian.PutUint16(out[32:34], uint16(channels*4)) // block align
	binary.LittleEndian.PutUint16(out[34:36], 32)                 // bits per sample

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[headerSize+i*4:], uint32(s))
	}
	return out
}

// Decode parses a PCM WAV file. Supported: integer PCM, 16/24/32 bits,
// any channel count (the GL100 tooling only uses 1 or 2).
func Decode(data []byte) (*File, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	f := &File{}
	var payload []byte
	haveFmt := false

	// Walk chunks; files from DAWs carry LIST/INFO chunks between fmt
	// and data, so skip anything unknown.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("unsupported WAV format %d (integer PCM only)", format)
			}
			f.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			f.Bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			payload = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if payload == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if f.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", f.Channels)
	}

	switch f.Bits {
	case 16:
		n := len(payload) / 2
		f.Samples = make([]int32, n)
		for i := 0; i < n; i++ {
			f.Samples[i] = int32(int16(binary.LittleEndian.Uint16(payload[i*2:])))
		}
	case 24:
		n := len(payload) / 3
		f.Samples = make([]int32, n)
		for i := 0; i < n; i++ {
			v := int32(payload[i*3]) | int32(payload[i*3+1])<<8 | int32(payload[i*3+2])<<16
			f.Samples[i] = (v << 8) >> 8
		}
	case 32:
		n := len(payload) / 4
		f.Samples = make([]int32, n)
		for i := 0; i < n; i++ {
			f.Samples[i] = int32(binary.LittleEndian.Uint32(payload[i*4:]))
		}
	default:
		return nil, fmt.Errorf("unsupported bit depth %d (want 16, 24 or 32)", f.Bits)
	}

	return f, nil
}
