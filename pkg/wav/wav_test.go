package wav

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := []int32{0, 1, -1, 1 << 20, -(1 << 20), 2147483647, -2147483648}
	data := Encode(samples, 2, 44100)

	f, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.SampleRate != 44100 || f.Channels != 2 || f.Bits != 32 {
		t.Errorf("fmt = %d Hz, %d ch, %d bits", f.SampleRate, f.Channels, f.Bits)
	}
	if len(f.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(f.Samples), len(samples))
	}
	for i, s := range f.Samples {
		if s != samples[i] {
			t.Errorf("sample %d = %d, want %d", i, s, samples[i])
		}
	}
}

func TestEncodeHeader(t *testing.T) {
	data := Encode(make([]int32, 10), 2, 44100)

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("bad RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != 36+40 {
		t.Errorf("RIFF size = %d, want 76", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != 44100*2*4 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != 8 {
		t.Errorf("block align = %d, want 8", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 40 {
		t.Errorf("data size = %d, want 40", got)
	}
	if len(data) != 44+40 {
		t.Errorf("file length = %d, want 84", len(data))
	}
}

// buildWAV assembles a file from raw chunk triples for decode tests.
func buildWAV(chunks ...[2][]byte) []byte {
	var buf bytes.Buffer
	var body bytes.Buffer
	for _, c := range chunks {
		body.Write(c[0])
		var sz [4]byte
		binary.LittleEndian.PutUint32(sz[:], uint32(len(c[1])))
		body.Write(sz[:])
		body.Write(c[1])
		if len(c[1])%2 == 1 {
			body.WriteByte(0)
		}
	}
	buf.WriteString("RIFF")
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(4+body.Len()))
	buf.Write(sz[:])
	buf.WriteString("WAVE")
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func fmtChunk(format, channels uint16, rate uint32, bits uint16) [2][]byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint16(b[0:2], format)
	binary.LittleEndian.PutUint16(b[2:4], channels)
	binary.LittleEndian.PutUint32(b[4:8], rate)
	binary.LittleEndian.PutUint32(b[8:12], rate*uint32(channels)*uint32(bits)/8)
	binary.LittleEndian.PutUint16(b[12:14], channels*bits/8)
	binary.LittleEndian.PutUint16(b[14:16], bits)
	return [2][]byte{[]byte("fmt "), b}
}

func TestDecode16Bit(t *testing.T) {
	payload := make([]byte, 6)
	for i, s := range []int16{1000, -1000, -32768} {
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(s))
	}

	f, err := Decode(buildWAV(fmtChunk(1, 1, 48000, 16), [2][]byte{[]byte("data"), payload}))
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{1000, -1000, -32768}
	for i, s := range f.Samples {
		if s != want[i] {
			t.Errorf("sample %d = %d, want %d", i, s, want[i])
		}
	}
	if f.Bits != 16 || f.SampleRate != 48000 {
		t.Errorf("fmt = %d bits, %d Hz", f.Bits, f.SampleRate)
	}
}

func TestDecode24Bit(t *testing.T) {
	// 0x000001, 0xFFFFFF (-1), 0x800000 (-8388608)
	payload := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x80}

	f, err := Decode(buildWAV(fmtChunk(1, 1, 44100, 24), [2][]byte{[]byte("data"), payload}))
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{1, -1, -8388608}
	for i, s := range f.Samples {
		if s != want[i] {
			t.Errorf("sample %d = %d, want %d", i, s, want[i])
		}
	}
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	// Odd-sized LIST chunk between fmt and data exercises word
	// alignment.
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(42))

	f, err := Decode(buildWAV(
		fmtChunk(1, 1, 44100, 32),
		[2][]byte{[]byte("LIST"), []byte("INFOx")},
		[2][]byte{[]byte("data"), payload},
	))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Samples) != 1 || f.Samples[0] != 42 {
		t.Errorf("samples = %v", f.Samples)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("RIFFxxxxJUNK")},
		{"no fmt", buildWAV([2][]byte{[]byte("data"), make([]byte, 4)})},
		{"no data", buildWAV(fmtChunk(1, 1, 44100, 16))},
		{"float format", buildWAV(fmtChunk(3, 1, 44100, 32), [2][]byte{[]byte("data"), make([]byte, 4)})},
		{"8 bit", buildWAV(fmtChunk(1, 1, 44100, 8), [2][]byte{[]byte("data"), make([]byte, 4)})},
		{"zero channels", buildWAV(fmtChunk(1, 0, 44100, 16), [2][]byte{[]byte("data"), make([]byte, 4)})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := NewWriter(f, 2, 44100)
	if err != nil {
		t.Fatal(err)
	}
	// Two batches, as a streaming producer would deliver them.
	if err := w.WriteSamples([]int32{1, -1, 1 << 20}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples([]int32{-(1 << 20)}); err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples([]int32{0}); err == nil {
		t.Error("write after Finalize should fail")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{1, -1, 1 << 20, -(1 << 20)}
	if len(got.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got.Samples), len(want))
	}
	for i, s := range got.Samples {
		if s != want[i] {
			t.Errorf("sample %d = %d, want %d", i, s, want[i])
		}
	}
	if got.Channels != 2 || got.SampleRate != 44100 || got.Bits != 32 {
		t.Errorf("fmt = %d ch, %d Hz, %d bits", got.Channels, got.SampleRate, got.Bits)
	}
}

func TestDecodeTruncatedChunk(t *testing.T) {
	data := buildWAV(fmtChunk(1, 1, 44100, 16), [2][]byte{[]byte("data"), make([]byte, 100)})
	if _, err := Decode(data[:len(data)-50]); err == nil {
		t.Error("truncated data chunk should fail")
	}
}
