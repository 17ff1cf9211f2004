package gl100

import "encoding/binary"

// Protocol constants recovered from packet captures of the vendor app.
const (
	MaxTracks     = 100  // slots 0-99
	MaxPacketSize = 1024 // largest data-in read per chunk
	FrameSize     = 64   // every command frame is exactly 64 bytes

	SampleRate         = 44100
	WireBytesPerSample = 3 // 24-bit little-endian
	WireFrameSize      = 6 // stereo pair

	cmdInitUpload = 0x01
	cmdDelete     = 0x03
	cmdTrackOps   = 0x07

	subDelete     = 0x88
	subDownload   = 0x82
	subUpload     = 0x84
	subInitUpload = 0x86
	subPlay       = 0x8A
)

// magic prefixes every command frame.
var magic = [3]byte{0x3F, 0xAA, 0x55}

// newFrame returns a zeroed 64-byte frame with the magic header and
// command/subcommand bytes in place. Byte 4 is reserved, always zero.
func newFrame(cmd, sub byte) []byte {
	f := make([]byte, FrameSize)
	copy(f, magic[:])
	f[3] = cmd
	f[5] = sub
	return f
}

// stamp computes the checksum over f[3:end] and writes it big-endian at
// f[end], f[end+1]. Every command checksums from the command-class byte.
func stamp(f []byte, end int) {
	crc := Checksum(f[3:end])
	f[end] = byte(crc >> 8)
	f[end+1] = byte(crc)
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= MaxTracks {
		return ErrInvalidSlot
	}
	return nil
}

// DeleteCommand builds the frame that erases a slot.
// Layout: 3F AA 55 03 00 88 <slot LE16> <crc BE16>.
func DeleteCommand(slot int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	f := newFrame(cmdDelete, subDelete)
	binary.LittleEndian.PutUint16(f[6:8], uint16(slot))
	stamp(f, 8)
	return f, nil
}

// DownloadCommand builds the frame requesting one chunk of a track.
// Chunk 0 doubles as the existence/size query: its response carries the
// track header instead of useful audio.
// Layout: 3F AA 55 07 00 82 <slot> 00 <chunk LE16> 00 00 <crc BE16>.
func DownloadCommand(slot, chunk int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if chunk < 0 || chunk > 0xFFFF {
		return nil, ErrInvalidChunk
	}
	f := newFrame(cmdTrackOps, subDownload)
	f[6] = byte(slot)
	binary.LittleEndian.PutUint16(f[8:10], uint16(chunk))
	stamp(f, 12)
	return f, nil
}

// QueryCommand builds the track existence/size query. On the wire this
// is a download of chunk 0.
func QueryCommand(slot int) ([]byte, error) {
	return DownloadCommand(slot, 0)
}

// UploadCommand builds the frame announcing one outbound chunk. The
// 1024-byte chunk payload itself goes out separately on the data
// endpoint.
func UploadCommand(slot, chunk int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if chunk < 0 || chunk > 0xFFFF {
		return nil, ErrInvalidChunk
	}
	f := newFrame(cmdTrackOps, subUpload)
	f[6] = byte(slot)
	binary.LittleEndian.PutUint16(f[8:10], uint16(chunk))
	stamp(f, 12)
	return f, nil
}

// InitUploadCommand builds the frame that arms the device for an
// upload session. It carries no parameters.
func InitUploadCommand() []byte {
	f := newFrame(cmdInitUpload, subInitUpload)
	stamp(f, 6)
	return f
}

// PlayCommand builds the frame that starts on-device playback of a
// slot. Byte 6 is the action flag; captures only ever show 0x01.
// Layout: 3F AA 55 07 00 8A 01 00 <slot LE16> 00 00 <crc BE16>.
func PlayCommand(slot int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	f := newFrame(cmdTrackOps, subPlay)
	f[6] = 0x01
	binary.LittleEndian.PutUint16(f[8:10], uint16(slot))
	stamp(f, 12)
	return f, nil
}

// StreamPlayCommand builds the chunked play variant seen in streaming
// captures: slot and chunk are single bytes at offsets 8 and 9.
func StreamPlayCommand(slot, chunk int) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if chunk < 0 || chunk > 0xFF {
		return nil, ErrInvalidChunk
	}
	f := newFrame(cmdTrackOps, subPlay)
	f[6] = 0x01
	f[8] = byte(slot)
	f[9] = byte(chunk)
	stamp(f, 12)
	return f, nil
}
