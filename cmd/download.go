package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shpala/gl100/pkg/gl100"
	"github.com/shpala/gl100/pkg/wav"
	"github.com/spf13/cobra"
)

var keepPartial bool

var downloadCmd = &cobra.Command{
	Use:   "download <slot> [output_file]",
	Short: "Download a track from the GL100",
	Long: `Download a track from the GL100 to a 32-bit stereo WAV file.

Examples:
  gl100 download 0              # Download slot 0 to slot_00.wav
  gl100 download 4 my_loop.wav  # Download slot 4 to my_loop.wav`,
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

		ctx := context.Background()

		info, err := dev.QueryTrack(ctx, slot)
		if err != nil {
			return fmt.Errorf("failed to query slot %d: %w", slot, err)
		}
		if !info.Exists {
			return fmt.Errorf("slot %d is empty", slot)
		}

		outputFile := fmt.Sprintf("slot_%02d.wav", slot)
		if len(args) >= 2 {
			outputFile = args[1]
		} else if cfg.Output.Directory != "" {
			outputFile = filepath.Join(cfg.Output.Directory, outputFile)
		}

		fmt.Printf("Downloading slot %d: %s (%.2f MB) -> %s\n",
			slot, formatDuration(info.Duration), float64(info.Size)/1024.0/1024.0, outputFile)

		bar := newTransferBar(int(info.Size), "Downloading")
		frames, err := dev.DownloadTrack(ctx, slot, func(done, total int) {
			bar.Set(done)
		})
		fmt.Fprintln(os.Stderr)

		var partial *gl100.PartialTransferError
		if errors.As(err, &partial) {
			if !keepPartial || len(partial.Frames) == 0 {
				return fmt.Errorf("download failed: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: %v; keeping %d frames\n", partial.Err, len(partial.Frames))
			frames = partial.Frames
		} else if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}

		data := wav.Encode(gl100.Interleave(frames), 2, gl100.SampleRate)
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		fmt.Printf("Successfully downloaded %d frames to %s\n", len(frames), outputFile)
		return nil
	},
}

func init() {
	downloadCmd.Flags().BoolVar(&keepPartial, "keep-partial", false, "Write whatever was received if the transfer aborts")
	rootCmd.AddCommand(downloadCmd)
}

func newTransferBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
