package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shpala/gl100/pkg/gl100"
	"github.com/shpala/gl100/pkg/wav"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <slot> <file.wav>",
	Short: "Upload a WAV file to the device",
	Long: `Upload a WAV file to a GL100 slot.

Accepts 16, 24 or 32-bit integer PCM, mono or stereo, at 44100 Hz.
Mono input is expanded to stereo with -3 dB attenuation, matching how
the pedal records its own loops.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot number: %s", args[0])
		}
		file := args[1]

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		f, err := wav.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if f.SampleRate != gl100.SampleRate {
			return fmt.Errorf("%s: sample rate is %d Hz, device wants %d Hz (resample first)",
				file, f.SampleRate, gl100.SampleRate)
		}

		frames, err := framesFromWAV(f)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		dev, usb, err := getDevice()
		if err != nil {
			return err
		}
		defer usb.Close()

		fmt.Printf("Uploading %s (%d frames, %s) to slot %d...\n",
			filepath.Base(file), len(frames),
			formatDuration(float64(len(frames))/gl100.SampleRate), slot)

		bar := newTransferBar(len(frames)*gl100.WireFrameSize, "Uploading")
		err = dev.UploadTrack(context.Background(), slot, frames, func(done, total int) {
			if done > bar.GetMax() {
				done = bar.GetMax()
			}
			bar.Set(done)
		})
		fmt.Fprintln(os.Stderr)

		var warn *gl100.VerificationWarning
		if errors.As(err, &warn) {
			fmt.Fprintf(os.Stderr, "Warning: verification mismatch: %v\n", warn)
		} else if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Println("Done!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

// framesFromWAV converts decoded WAV samples to device frames. 16 and
// 24-bit samples are widened into the 32-bit host scale by the same
// 8-bit shift the wire codec uses.
func framesFromWAV(f *wav.File) ([]gl100.Frame, error) {
	samples := f.Samples
	switch f.Bits {
	case 16, 24:
		widened := make([]int32, len(samples))
		for i, s := range samples {
			widened[i] = s << 8
		}
		samples = widened
	case 32:
		// Already host scale.
	}

	switch f.Channels {
	case 1:
		return gl100.FramesFromMono32(samples), nil
	case 2:
		return gl100.FramesFromStereo32(samples), nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d (want mono or stereo)", f.Channels)
	}
}
