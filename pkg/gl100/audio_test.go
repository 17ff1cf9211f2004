package gl100

import (
	"bytes"
	"testing"
)

func TestDecodeFramesSignExtension(t *testing.T) {
	t.Parallel()
	// One frame: L = 1 (wire), R = -1 (wire 0xFFFFFF).
	data := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF, 0xFF}
	frames := DecodeFrames(data, false)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].L != 256 {
		t.Errorf("L = %d, want 256", frames[0].L)
	}
	if frames[0].R != -256 {
		t.Errorf("R = %d, want -256", frames[0].R)
	}

	// Extremes: wire 0x800000 is the most negative 24-bit value.
	data = []byte{0x00, 0x00, 0x80, 0xFF, 0xFF, 0x7F}
	frames = DecodeFrames(data, false)
	if frames[0].L != -2147483648 {
		t.Errorf("L = %d, want -2147483648", frames[0].L)
	}
	if frames[0].R != 2147483392 {
		t.Errorf("R = %d, want 2147483392", frames[0].R)
	}
}

func TestDecodeFramesLowBitsZero(t *testing.T) {
	t.Parallel()
	data := make([]byte, 6*64)
	for i := range data {
		data[i] = byte(i*37 + 11)
	}
	for _, f := range DecodeFrames(data, false) {
		if f.L&0xFF != 0 || f.R&0xFF != 0 {
			t.Fatalf("decoded sample has nonzero low bits: L=%08X R=%08X", uint32(f.L), uint32(f.R))
		}
	}
}

func TestDecodeFramesHeaderSkip(t *testing.T) {
	t.Parallel()
	payload := []byte{0x01, 0x00, 0x00, 0x02, 0x00, 0x00}
	data := append(make([]byte, 18), payload...)
	frames := DecodeFrames(data, true)
	if len(frames) != 1 || frames[0].L != 256 || frames[0].R != 512 {
		t.Errorf("frames = %+v", frames)
	}

	// Without the skip the preamble is parsed as (garbage) audio.
	if got := len(DecodeFrames(data, false)); got != 4 {
		t.Errorf("unskipped frame count = %d, want 4", got)
	}

	// Shorter than the preamble decodes to nothing, not an error.
	if got := DecodeFrames(make([]byte, 10), true); len(got) != 0 {
		t.Errorf("got %d frames from short buffer", len(got))
	}
}

func TestDecodeFramesDropsTrailingBytes(t *testing.T) {
	t.Parallel()
	data := make([]byte, 6*3+5)
	if got := len(DecodeFrames(data, false)); got != 3 {
		t.Errorf("got %d frames, want 3", got)
	}
	if got := DecodeFrames(nil, false); len(got) != 0 {
		t.Errorf("nil input: got %d frames", len(got))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	// Host samples at the scale Encode produces: 24-bit values shifted
	// up 8 bits. Decode must reproduce them exactly.
	frames := []Frame{
		{L: 100 << 8, R: -100 << 8},
		{L: 1000 << 8, R: -1000 << 8},
		{L: -8388608 << 8, R: 8388607 << 8},
	}
	want := []Frame{
		{L: 25600, R: -25600},
		{L: 256000, R: -256000},
		{L: -2147483648, R: 2147483392},
	}

	got := DecodeFrames(EncodeFrames(frames), false)
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEncodeFramesWireBytes(t *testing.T) {
	t.Parallel()
	out := EncodeFrames([]Frame{{L: 256, R: -256}})
	want := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(out, want) {
		t.Errorf("wire bytes = % X, want % X", out, want)
	}
}

func TestFramesFromMono32Attenuation(t *testing.T) {
	t.Parallel()
	frames := FramesFromMono32([]int32{16384 << 8, -16384 << 8, 1 << 8})
	want := []int32{2965820, -2965820, 181}
	for i, f := range frames {
		if f.L != want[i] || f.R != want[i] {
			t.Errorf("frame %d = %+v, want L=R=%d", i, f, want[i])
		}
	}
}

func TestFramesFromMono16(t *testing.T) {
	t.Parallel()
	frames := FramesFromMono16([]int16{16384, -16384})
	if frames[0].L != 2965820 || frames[0].R != 2965820 {
		t.Errorf("frame 0 = %+v, want L=R=2965820", frames[0])
	}
	if frames[1].L != -2965820 {
		t.Errorf("frame 1 = %+v, want L=-2965820", frames[1])
	}
}

func TestFramesFromStereo16Widening(t *testing.T) {
	t.Parallel()
	frames := FramesFromStereo16([]int16{100, -100, 1000, -1000})
	want := []Frame{{L: 25600, R: -25600}, {L: 256000, R: -256000}}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, frames[i], want[i])
		}
	}
}

func TestInterleave(t *testing.T) {
	t.Parallel()
	got := Interleave([]Frame{{L: 1, R: 2}, {L: 3, R: 4}})
	want := []int32{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interleaved = %v, want %v", got, want)
		}
	}
}

func TestChunkDecoderRemainder(t *testing.T) {
	t.Parallel()
	var dec ChunkDecoder

	first := dec.Write(make([]byte, 1024))
	if len(first) != 170 {
		t.Errorf("first chunk: %d frames, want 170", len(first))
	}
	if got := len(dec.Remainder()); got != 4 {
		t.Errorf("remainder after first chunk = %d, want 4", got)
	}

	second := dec.Write(make([]byte, 1024))
	if len(second) != 171 {
		t.Errorf("second chunk: %d frames, want 171", len(second))
	}
	if got := len(dec.Remainder()); got != 2 {
		t.Errorf("remainder after second chunk = %d, want 2", got)
	}

	if len(first)+len(second) != 341 {
		t.Errorf("total frames = %d, want 341", len(first)+len(second))
	}

	for _, f := range append(first, second...) {
		if f.L != 0 || f.R != 0 {
			t.Fatal("zero input decoded to nonzero frame")
		}
	}
}

func TestChunkDecoderCarriesSplitFrame(t *testing.T) {
	t.Parallel()
	wire := EncodeFrames([]Frame{{L: 25600, R: -25600}, {L: 256000, R: -256000}})

	var dec ChunkDecoder
	frames := dec.Write(wire[:7]) // one full frame plus one byte
	if len(frames) != 1 || frames[0].L != 25600 {
		t.Fatalf("first write: %+v", frames)
	}
	frames = dec.Write(wire[7:])
	if len(frames) != 1 || frames[0].L != 256000 || frames[0].R != -256000 {
		t.Fatalf("second write: %+v", frames)
	}
	if len(dec.Remainder()) != 0 {
		t.Errorf("remainder = %d bytes, want 0", len(dec.Remainder()))
	}
}
