package gl100

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// uploadSettle is how long the device needs after arming an upload
// before it accepts chunk data, measured against the vendor app.
var uploadSettle = time.Second

// Device drives transfer sessions over a Transport. Operations are
// strictly sequential per device: responses carry no tags and are
// matched purely by issue order, so a mutex serializes every session
// on the connection.
type Device struct {
	mu sync.Mutex
	t  Transport
}

// New wraps a transport in a Device.
func New(t Transport) *Device {
	return &Device{t: t}
}

// QueryTrack asks one slot for its existence and size. An empty slot
// is not an error here; DownloadTrack is the one that refuses it.
func (d *Device) QueryTrack(ctx context.Context, slot int) (TrackInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queryLocked(ctx, slot)
}

func (d *Device) queryLocked(ctx context.Context, slot int) (TrackInfo, error) {
	cmd, err := QueryCommand(slot)
	if err != nil {
		return TrackInfo{}, err
	}
	if err := d.t.SendCommand(ctx, cmd); err != nil {
		return TrackInfo{}, fmt.Errorf("query slot %d: %w", slot, err)
	}
	resp, err := d.t.ReadData(ctx, MaxPacketSize)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("query slot %d: %w", slot, err)
	}
	exists, size, err := ParseTrackHeader(resp)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("query slot %d: %w", slot, err)
	}
	return TrackInfo{Slot: slot, Exists: exists, Size: size, Duration: trackDuration(size)}, nil
}

// ListTracks queries all 100 slots in order. The device has no bulk
// list command, so this is one round-trip per slot; a slot that fails
// to answer is reported as empty rather than failing the whole list.
func (d *Device) ListTracks(ctx context.Context, progress ProgressFunc) ([]TrackInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tracks := make([]TrackInfo, 0, MaxTracks)
	for slot := 0; slot < MaxTracks; slot++ {
		if err := ctx.Err(); err != nil {
			return tracks, err
		}
		info, err := d.queryLocked(ctx, slot)
		if err != nil {
			info = TrackInfo{Slot: slot}
		}
		tracks = append(tracks, info)
		if progress != nil {
			progress(slot+1, MaxTracks)
		}
	}
	return tracks, nil
}

// DownloadTrack pulls a whole track from a slot and decodes it to host
// frames. Chunk 0 supplies only the header; audio starts at chunk 1
// with no preamble. A transport failure mid-transfer aborts the
// remaining chunks and returns the frames decoded so far inside a
// *PartialTransferError; individual chunks are not retried.
func (d *Device) DownloadTrack(ctx context.Context, slot int, progress ProgressFunc) ([]Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.queryLocked(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !info.Exists {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrTrackNotFound)
	}

	size := int(info.Size)
	totalChunks := (size + MaxPacketSize - 1) / MaxPacketSize
	totalFrames := size / WireFrameSize

	raw := make([]byte, 0, totalChunks*MaxPacketSize)
	for chunk := 1; chunk <= totalChunks; chunk++ {
		data, err := d.downloadChunk(ctx, slot, chunk)
		if err != nil {
			frames := DecodeFrames(raw, false)
			if len(frames) > totalFrames {
				frames = frames[:totalFrames]
			}
			return nil, &PartialTransferError{
				Frames:    frames,
				BytesDone: len(raw),
				BytesWant: size,
				Err:       err,
			}
		}
		raw = append(raw, data...)
		if progress != nil {
			progress(len(raw), size)
		}
	}

	frames := DecodeFrames(raw, false)
	if len(frames) > totalFrames {
		// Final chunk padding past the declared track length.
		frames = frames[:totalFrames]
	}
	return frames, nil
}

func (d *Device) downloadChunk(ctx context.Context, slot, chunk int) ([]byte, error) {
	cmd, err := DownloadCommand(slot, chunk)
	if err != nil {
		return nil, err
	}
	if err := d.t.SendCommand(ctx, cmd); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", chunk, err)
	}
	data, err := d.t.ReadData(ctx, MaxPacketSize)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", chunk, err)
	}
	return data, nil
}

// UploadTrack encodes frames to the wire format and sends them to a
// slot. Chunk 0 is a metadata chunk carrying the encoded byte count;
// chunks 1..N carry the audio, each padded to 1024 bytes. Every chunk
// is a command send plus a data send, each acknowledged on the status
// channel. After the last chunk the slot is queried back; a size or
// existence mismatch comes back as a *VerificationWarning, which the
// caller may treat as advisory.
func (d *Device) UploadTrack(ctx context.Context, slot int, frames []Frame, progress ProgressFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkSlot(slot); err != nil {
		return err
	}

	encoded := EncodeFrames(frames)
	audioChunks := (len(encoded) + MaxPacketSize - 1) / MaxPacketSize
	if audioChunks > 0xFFFF {
		return ErrTooManyChunks
	}

	if err := d.t.SendCommand(ctx, InitUploadCommand()); err != nil {
		return fmt.Errorf("init upload: %w", err)
	}
	d.t.ReadStatus(ctx, FrameSize) // ack, best effort
	if err := sleepCtx(ctx, uploadSettle); err != nil {
		return err
	}

	total := (audioChunks + 1) * MaxPacketSize
	sent := 0
	for idx := 0; idx <= audioChunks; idx++ {
		chunk := make([]byte, MaxPacketSize)
		if idx == 0 {
			binary.LittleEndian.PutUint32(chunk, uint32(len(encoded)))
		} else {
			copy(chunk, encoded[(idx-1)*MaxPacketSize:min(idx*MaxPacketSize, len(encoded))])
		}

		cmd, err := UploadCommand(slot, idx)
		if err != nil {
			return err
		}
		if err := d.t.SendCommand(ctx, cmd); err != nil {
			return fmt.Errorf("upload chunk %d: %w", idx, err)
		}
		d.t.ReadStatus(ctx, FrameSize) // command ack, best effort

		if err := d.t.SendData(ctx, chunk); err != nil {
			return fmt.Errorf("upload chunk %d data: %w", idx, err)
		}
		d.t.ReadStatus(ctx, FrameSize) // data ack, best effort

		sent += MaxPacketSize
		if progress != nil {
			progress(sent, total)
		}
	}

	// Let the device commit, then read back what it thinks it has.
	if err := sleepCtx(ctx, uploadSettle); err != nil {
		return err
	}
	info, err := d.queryLocked(ctx, slot)
	if err != nil {
		// The upload itself completed; a failed verification read is
		// not a failed upload.
		return nil
	}
	if !info.Exists || info.Size != uint32(len(encoded)) {
		return &VerificationWarning{
			Exists:      info.Exists,
			SentBytes:   uint32(len(encoded)),
			DeviceBytes: info.Size,
		}
	}
	return nil
}

// DeleteTrack erases a slot.
func (d *Device) DeleteTrack(ctx context.Context, slot int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd, err := DeleteCommand(slot)
	if err != nil {
		return err
	}
	if err := d.t.SendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	if _, err := d.t.ReadStatus(ctx, FrameSize); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	return nil
}

// PlayTrack triggers playback of a slot on the device itself.
func (d *Device) PlayTrack(ctx context.Context, slot int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd, err := PlayCommand(slot)
	if err != nil {
		return err
	}
	if err := d.t.SendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("play slot %d: %w", slot, err)
	}
	// The device answers on the data channel; drain it so the next
	// session's responses stay aligned.
	d.t.ReadData(ctx, MaxPacketSize)
	return nil
}

// StreamTrack downloads a track chunk by chunk and hands decoded
// frames to the sink as they arrive, never holding the whole track in
// memory. Carry-over buffering bridges the 1024-byte chunk boundary
// and the 6-byte frame size. Cancellation is cooperative: the context
// is checked once per chunk boundary and ends the session cleanly.
func (d *Device) StreamTrack(ctx context.Context, slot int, sink PlaybackSink, progress ProgressFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.queryLocked(ctx, slot)
	if err != nil {
		return err
	}
	if !info.Exists {
		return fmt.Errorf("slot %d: %w", slot, ErrTrackNotFound)
	}

	totalChunks := (int(info.Size) + MaxPacketSize - 1) / MaxPacketSize
	var dec ChunkDecoder
	delivered := 0

	for chunk := 1; chunk <= totalChunks; chunk++ {
		if ctx.Err() != nil {
			return nil
		}
		data, err := d.downloadChunk(ctx, slot, chunk)
		if err != nil {
			return &PartialTransferError{
				BytesDone: delivered,
				BytesWant: int(info.Size),
				Err:       err,
			}
		}
		delivered += len(data)

		frames := dec.Write(data)
		if len(frames) > 0 {
			if err := sink.Accept(frames); err != nil {
				return fmt.Errorf("playback sink: %w", err)
			}
		}
		if progress != nil {
			progress(chunk, totalChunks)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
