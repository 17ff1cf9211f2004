package gl100

// Frame is one sample instant in host representation: 32-bit signed
// PCM, scaled up from the device's 24-bit wire format by a fixed 8-bit
// left shift. The low 8 bits of any decoded sample are always zero.
type Frame struct {
	L, R int32
}

// chunk0HeaderLen is the preamble the device prepends to the very
// first chunk of a track query. Chunks 1 and up are pure audio. This
// is an observed device quirk with no known rationale.
const chunk0HeaderLen = 18

const monoAttenuation = 0.70710678 // -3 dB

// decodeSample converts one 3-byte little-endian wire group to a host
// sample: assemble 24 bits, sign-extend with an arithmetic shift, then
// scale up 8 bits.
func decodeSample(b0, b1, b2 byte) int32 {
	v := int32(b0) | int32(b1)<<8 | int32(b2)<<16
	v = (v << 8) >> 8
	return v << 8
}

// DecodeFrames converts device wire bytes to host frames. With
// skipHeader the first 18 bytes are discarded (chunk-0 preamble).
// Trailing bytes short of a full 6-byte frame are dropped; callers
// crossing chunk boundaries must carry them via ChunkDecoder. Empty
// input decodes to an empty slice, never an error.
func DecodeFrames(data []byte, skipHeader bool) []Frame {
	if skipHeader {
		if len(data) <= chunk0HeaderLen {
			return nil
		}
		data = data[chunk0HeaderLen:]
	}
	n := len(data) / WireFrameSize
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		off := i * WireFrameSize
		frames[i] = Frame{
			L: decodeSample(data[off], data[off+1], data[off+2]),
			R: decodeSample(data[off+3], data[off+4], data[off+5]),
		}
	}
	return frames
}

// encodeSample converts one host sample to its 3-byte little-endian
// wire form: arithmetic shift down to 24 bits, then two's-complement
// the magnitude into an unsigned bit pattern.
func encodeSample(s int32, out []byte) {
	v := int64(s >> 8)
	if v < 0 {
		v += 1 << 24
	}
	out[0] = byte(v)
	out[1] = byte(v >> 8)
	out[2] = byte(v >> 16)
}

// EncodeFrames converts host frames to device wire bytes. Decode of
// the result reproduces every input sample exactly, since the low 8
// bits discarded here are zero by construction for any sample that
// came from DecodeFrames or the widening helpers.
func EncodeFrames(frames []Frame) []byte {
	out := make([]byte, len(frames)*WireFrameSize)
	for i, f := range frames {
		off := i * WireFrameSize
		encodeSample(f.L, out[off:off+3])
		encodeSample(f.R, out[off+3:off+6])
	}
	return out
}

// clampInt32 bounds a float intermediate to the signed 32-bit range
// before truncation.
func clampInt32(v float64) int32 {
	if v > 2147483647 {
		return 2147483647
	}
	if v < -2147483648 {
		return -2147483648
	}
	return int32(v)
}

// FramesFromMono32 expands single-channel 32-bit samples to stereo
// frames with -3 dB attenuation. Mono audio must never reach the
// device unattenuated or single-channel.
func FramesFromMono32(samples []int32) []Frame {
	frames := make([]Frame, len(samples))
	for i, s := range samples {
		v := clampInt32(float64(s) * monoAttenuation)
		frames[i] = Frame{L: v, R: v}
	}
	return frames
}

// FramesFromMono16 widens 16-bit mono samples to the host scale and
// expands to attenuated stereo.
func FramesFromMono16(samples []int16) []Frame {
	wide := make([]int32, len(samples))
	for i, s := range samples {
		wide[i] = int32(s) << 8
	}
	return FramesFromMono32(wide)
}

// FramesFromStereo16 widens interleaved 16-bit stereo samples to host
// frames. Input length must be even; a trailing odd sample is dropped.
func FramesFromStereo16(samples []int16) []Frame {
	n := len(samples) / 2
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = Frame{
			L: int32(samples[2*i]) << 8,
			R: int32(samples[2*i+1]) << 8,
		}
	}
	return frames
}

// FramesFromStereo32 pairs interleaved 32-bit stereo samples into
// frames. A trailing odd sample is dropped.
func FramesFromStereo32(samples []int32) []Frame {
	n := len(samples) / 2
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = Frame{L: samples[2*i], R: samples[2*i+1]}
	}
	return frames
}

// Interleave flattens frames to interleaved L/R samples, the layout
// WAV files and raw PCM sinks expect.
func Interleave(frames []Frame) []int32 {
	out := make([]int32, len(frames)*2)
	for i, f := range frames {
		out[2*i] = f.L
		out[2*i+1] = f.R
	}
	return out
}

// ChunkDecoder decodes a stream of wire chunks whose boundaries do not
// align with the 6-byte frame size (1024 % 6 != 0). Bytes short of a
// full frame are carried into the next Write.
type ChunkDecoder struct {
	rem []byte
}

// Write appends chunk bytes and returns every complete frame now
// available. The 0-5 byte tail is retained for the next call.
func (d *ChunkDecoder) Write(chunk []byte) []Frame {
	d.rem = append(d.rem, chunk...)
	usable := len(d.rem) / WireFrameSize * WireFrameSize
	if usable == 0 {
		return nil
	}
	frames := DecodeFrames(d.rem[:usable], false)
	d.rem = append(d.rem[:0], d.rem[usable:]...)
	return frames
}

// Remainder returns the undecoded tail bytes currently buffered.
func (d *ChunkDecoder) Remainder() []byte {
	return d.rem
}
