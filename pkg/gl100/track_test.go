package gl100

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestParseTrackHeader(t *testing.T) {
	t.Parallel()
	// Captured chunk-0 header for a one-second stereo loop.
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x98, 0x09, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}
	exists, size, err := ParseTrackHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("exists = false, want true")
	}
	if size != 264600 {
		t.Errorf("size = %d, want 264600", size)
	}

	data[0] = 0
	exists, _, err = ParseTrackHeader(data)
	if err != nil || exists {
		t.Errorf("empty slot: exists=%v err=%v", exists, err)
	}
}

func TestParseTrackHeaderShort(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, 11} {
		if _, _, err := ParseTrackHeader(make([]byte, n)); !errors.Is(err, ErrShortResponse) {
			t.Errorf("%d bytes: err = %v, want ErrShortResponse", n, err)
		}
	}
}

func TestParseTrackList(t *testing.T) {
	t.Parallel()
	// Three records after the 16-byte preamble, then a truncated
	// fourth that must end the list without error.
	data := make([]byte, 16+3*8+5)
	data[16] = 1
	binary.LittleEndian.PutUint32(data[16+4:], 264600)
	// record 1 left zero: empty slot
	data[16+16] = 1
	binary.LittleEndian.PutUint32(data[16+16+4:], 529200)

	tracks := ParseTrackList(data)
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks, want 3", len(tracks))
	}
	if !tracks[0].Exists || tracks[0].Size != 264600 || tracks[0].Slot != 0 {
		t.Errorf("track 0 = %+v", tracks[0])
	}
	if tracks[1].Exists || tracks[1].Size != 0 || tracks[1].Slot != 1 {
		t.Errorf("track 1 = %+v", tracks[1])
	}
	if !tracks[2].Exists || tracks[2].Size != 529200 || tracks[2].Slot != 2 {
		t.Errorf("track 2 = %+v", tracks[2])
	}

	// 264600 bytes of 6-byte frames at 44100 Hz is exactly one second.
	if math.Abs(tracks[0].Duration-1.0) > 1e-9 {
		t.Errorf("duration = %v, want 1.0", tracks[0].Duration)
	}
}

func TestParseTrackListTooShort(t *testing.T) {
	t.Parallel()
	if tracks := ParseTrackList(make([]byte, 16)); len(tracks) != 0 {
		t.Errorf("got %d tracks from header-only buffer", len(tracks))
	}
	if tracks := ParseTrackList(nil); len(tracks) != 0 {
		t.Errorf("got %d tracks from nil", len(tracks))
	}
}
