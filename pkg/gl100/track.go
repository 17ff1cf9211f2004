package gl100

import "encoding/binary"

// TrackInfo describes one slot as reported by the device.
type TrackInfo struct {
	Slot     int
	Exists   bool
	Size     uint32  // bytes of 24-bit stereo audio (6 per frame)
	Duration float64 // seconds
}

func trackDuration(size uint32) float64 {
	return float64(size) / float64(WireFrameSize*SampleRate)
}

// ParseTrackHeader decodes the 12+ byte header the device prepends to
// the chunk-0 response: byte 0 is the exists flag, bytes 4-7 the track
// size little-endian.
func ParseTrackHeader(data []byte) (exists bool, size uint32, err error) {
	if len(data) < 12 {
		return false, 0, ErrShortResponse
	}
	exists = data[0] != 0
	size = binary.LittleEndian.Uint32(data[4:8])
	return exists, size, nil
}

// ParseTrackList decodes the bulk track-list response: one 8-byte
// record per slot starting at byte 16, same exists/size layout as the
// track header. A buffer too short for the next record ends the list
// without error.
func ParseTrackList(data []byte) []TrackInfo {
	var tracks []TrackInfo
	offset := 16
	for slot := 0; slot < MaxTracks; slot++ {
		if offset+8 > len(data) {
			break
		}
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		tracks = append(tracks, TrackInfo{
			Slot:     slot,
			Exists:   data[offset] != 0,
			Size:     size,
			Duration: trackDuration(size),
		})
		offset += 8
	}
	return tracks
}
