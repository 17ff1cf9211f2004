package cmd

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/shpala/gl100/pkg/gl100"
	"github.com/shpala/gl100/pkg/wav"
	"github.com/spf13/cobra"
)

var streamCmd = &cobra.Command{
	Use:   "stream <slot> [output_file]",
	Short: "Stream a track chunk by chunk",
	Long: `Stream a track from the GL100 without holding it in memory.

With no output file, raw signed 32-bit little-endian stereo PCM at
44100 Hz goes to stdout, so playback starts immediately:

  gl100 stream 3 | aplay -f S32_LE -c 2 -r 44100

With an output file, an incremental WAV is written instead; the file
is valid even if the transfer stops early.

Ctrl-C stops cleanly at the next chunk boundary.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot number: %s", args[0])
		}

		dev, usb, err := getDevice()
		if err != nil {
			return err
		}
		defer usb.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var sink gl100.PlaybackSink
		if len(args) >= 2 {
			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[1], err)
			}
			defer f.Close()
			ws, err := wav.NewWriter(f, 2, gl100.SampleRate)
			if err != nil {
				return err
			}
			defer ws.Finalize()
			sink = &wavSink{w: ws}
		} else {
			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()
			sink = &pcmSink{w: out}
		}

		err = dev.StreamTrack(ctx, slot, sink, func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rStreaming... chunk %d/%d", done, total)
		})
		fmt.Fprintln(os.Stderr)

		var partial *gl100.PartialTransferError
		if errors.As(err, &partial) {
			fmt.Fprintf(os.Stderr, "Stream ended early: %v\n", partial.Err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream failed: %w", err)
		}
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Stopped.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
}

// pcmSink writes frames as interleaved s32le PCM.
type pcmSink struct {
	w io.Writer
}

func (s *pcmSink) Accept(frames []gl100.Frame) error {
	buf := make([]byte, len(frames)*8)
	for i, f := range frames {
		binary.LittleEndian.PutUint32(buf[i*8:], uint32(f.L))
		binary.LittleEndian.PutUint32(buf[i*8+4:], uint32(f.R))
	}
	_, err := s.w.Write(buf)
	return err
}

// wavSink appends frames to an incremental WAV writer.
type wavSink struct {
	w *wav.Writer
}

func (s *wavSink) Accept(frames []gl100.Frame) error {
	return s.w.WriteSamples(gl100.Interleave(frames))
}
