package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display device information",
	Long:  `Display descriptor and endpoint information for the connected GL100, plus a summary of used slots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, usb, err := getDevice()
		if err != nil {
			return err
		}
		defer usb.Close()

		fmt.Println("\nGL100 Device Information")
		fmt.Println("========================")
		fmt.Println(usb.Description())

		fmt.Println("\nEndpoints:")
		for _, ep := range usb.Endpoints() {
			fmt.Printf("  %s\n", ep)
		}

		// Quick occupancy check on the first few slots; a full scan is
		// what 'list' is for.
		fmt.Println("\nFirst slots:")
		for slot := 0; slot < 5; slot++ {
			info, err := dev.QueryTrack(context.Background(), slot)
			if err != nil {
				fmt.Printf("  slot %d: (error: %v)\n", slot, err)
				continue
			}
			if info.Exists {
				fmt.Printf("  slot %d: %s, %.2f MB\n", slot, formatDuration(info.Duration), float64(info.Size)/1024.0/1024.0)
			} else {
				fmt.Printf("  slot %d: empty\n", slot)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
