package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <slot>",
	Short: "Play a track on the pedal",
	Long:  `Trigger playback of a slot on the GL100 itself, through the pedal's own output.`,
	Args:  cobra.ExactArgs(1),
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

		if err := dev.PlayTrack(context.Background(), slot); err != nil {
			return fmt.Errorf("play failed: %w", err)
		}

		fmt.Printf("Playing slot %d on the pedal.\n", slot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
