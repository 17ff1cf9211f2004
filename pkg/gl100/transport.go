package gl100

import "context"

// Transport moves raw bytes between host and device. The device has
// one command channel, one bulk data-out channel, one data-in channel
// and a short-acknowledgement status channel; addressing is the
// implementation's concern. USBTransport implements this over gousb;
// tests substitute an in-memory fake.
type Transport interface {
	// SendCommand writes one 64-byte command frame.
	SendCommand(ctx context.Context, frame []byte) error

	// SendData writes one chunk payload on the data-out channel.
	SendData(ctx context.Context, chunk []byte) error

	// ReadData reads up to max bytes from the data-in channel.
	ReadData(ctx context.Context, max int) ([]byte, error)

	// ReadStatus reads a short acknowledgement from the status channel.
	ReadStatus(ctx context.Context, max int) ([]byte, error)
}

// PlaybackSink receives decoded frames during streaming playback, one
// call per chunk. It is invoked synchronously and must not block
// indefinitely.
type PlaybackSink interface {
	Accept(frames []Frame) error
}

// ProgressFunc reports transfer progress as (done, total). Best
// effort; the orchestrator may call it at reduced frequency.
type ProgressFunc func(done, total int)
