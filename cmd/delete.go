package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a track from the device",
	Long:  `Delete the track stored in a GL100 slot. The slot is erased immediately, without confirmation.`,
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

		fmt.Printf("Deleting track in slot %d...\n", slot)

		if err := dev.DeleteTrack(context.Background(), slot); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		fmt.Println("Done!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
