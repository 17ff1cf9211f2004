package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks on the device",
	Long: `List tracks stored in the GL100's 100 slots.

The pedal has no bulk list command, so every slot is queried
individually; expect this to take a few seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, usb, err := getDevice()
		if err != nil {
			return err
		}
		defer usb.Close()

		fmt.Fprint(os.Stderr, "Scanning slots...")
		tracks, err := dev.ListTracks(context.Background(), func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rScanning slots... %d/%d", done, total)
		})
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to list tracks: %w", err)
		}

		fmt.Printf("\nTracks on device:\n")
		fmt.Printf("%-5s  %-10s  %s\n", "Slot", "Duration", "Size")
		fmt.Printf("%-5s  %-10s  %s\n", "----", "--------", "----")

		used := 0
		var totalSize uint64
		for _, t := range tracks {
			if !t.Exists {
				if listAll {
					fmt.Printf("%-5d  %-10s  -\n", t.Slot, "empty")
				}
				continue
			}
			used++
			totalSize += uint64(t.Size)
			fmt.Printf("%-5d  %-10s  %.2f MB\n", t.Slot, formatDuration(t.Duration), float64(t.Size)/1024.0/1024.0)
		}

		fmt.Printf("\nTotal: %d track(s), %.2f MB\n", used, float64(totalSize)/1024.0/1024.0)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Show empty slots too")
	rootCmd.AddCommand(listCmd)
}

func formatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
