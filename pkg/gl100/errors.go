package gl100

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSlot is returned before any I/O when a slot is outside 0-99.
	ErrInvalidSlot = errors.New("slot must be 0-99")

	// ErrInvalidChunk is returned before any I/O when a chunk index is
	// outside its command's range.
	ErrInvalidChunk = errors.New("chunk index out of range")

	// ErrShortResponse means the device answered with fewer bytes than
	// the parse requires. The caller may retry or abort the operation.
	ErrShortResponse = errors.New("response too short")

	// ErrTrackNotFound means the queried slot is empty.
	ErrTrackNotFound = errors.New("no track in slot")

	// ErrTooManyChunks means the encoded upload would exceed the 16-bit
	// chunk index space.
	ErrTooManyChunks = errors.New("track exceeds 65535 chunks")
)

// PartialTransferError reports a download or stream that ended early on
// a transport failure. Frames holds whatever was decoded before the
// failure; the caller decides whether partial audio is usable.
type PartialTransferError struct {
	Frames    []Frame
	BytesDone int
	BytesWant int
	Err       error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("transfer aborted after %d of %d bytes: %v", e.BytesDone, e.BytesWant, e.Err)
}

func (e *PartialTransferError) Unwrap() error { return e.Err }

// VerificationWarning reports a post-upload query that disagrees with
// what was sent. The upload may still be intact on the device, so this
// is advisory rather than fatal.
type VerificationWarning struct {
	Exists      bool
	SentBytes   uint32
	DeviceBytes uint32
}

func (e *VerificationWarning) Error() string {
	if !e.Exists {
		return "device reports no track after upload"
	}
	return fmt.Sprintf("device reports %d bytes, sent %d", e.DeviceBytes, e.SentBytes)
}
