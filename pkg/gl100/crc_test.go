package gl100

import "testing"

func TestChecksumKnownVectors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		// "123456789" is the standard CRC test vector; the expected
		// value includes this protocol's final complement.
		{"standard vector", []byte("123456789"), 0xCE3C},
		{"empty", nil, 0xFFFF},
		{"magic header", []byte{0x3F, 0xAA, 0x55}, 0xEE8E},
		// Spans lifted from captured command frames.
		{"delete slot 7 span", []byte{0x03, 0x00, 0x88, 0x07, 0x00}, 0x1A41},
		{"init upload span", []byte{0x01, 0x00, 0x86}, 0x3981},
		{"download slot 5 chunk 0 span", []byte{0x07, 0x00, 0x82, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00}, 0xC64F},
	}
	for _, tt := range tests {
		if got := Checksum(tt.data); got != tt.want {
			t.Errorf("%s: Checksum = 0x%04X, want 0x%04X", tt.name, got, tt.want)
		}
	}
}

func TestChecksumDetectsBitFlips(t *testing.T) {
	t.Parallel()
	data := []byte{0x07, 0x00, 0x82, 0x05, 0x00, 0x01, 0x02, 0x03, 0x04}
	ref := Checksum(data)
	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(data))
			copy(flipped, data)
			flipped[i] ^= 1 << bit
			if Checksum(flipped) == ref {
				t.Errorf("flip byte %d bit %d not detected", i, bit)
			}
		}
	}
}

func TestChecksumDeterministic(t *testing.T) {
	t.Parallel()
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	first := Checksum(data)
	for i := 0; i < 10; i++ {
		if got := Checksum(data); got != first {
			t.Fatalf("Checksum not deterministic: 0x%04X then 0x%04X", first, got)
		}
	}
}
