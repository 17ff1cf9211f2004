package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shpala/gl100/internal/config"
	"github.com/shpala/gl100/pkg/gl100"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gl100",
	Short: "CLI tool for the Mooer GL100 looper pedal",
	Long: `gl100 is a command-line interface for managing tracks on the
Mooer GL100 looper pedal via USB.

The GL100 stores up to 100 loops in numbered slots. This tool lists,
downloads, uploads, deletes, plays and streams those tracks using the
pedal's vendor protocol.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/gl100/config.yaml)")
}

// getDevice opens the GL100 and returns the orchestrator plus its
// transport (the transport carries Close and the descriptor helpers).
func getDevice() (*gl100.Device, *gl100.USBTransport, error) {
	fmt.Fprintln(os.Stderr, "Connecting to GL100...")

	usb, err := gl100.OpenUSB(
		cfg.Device.VendorID,
		cfg.Device.ProductID,
		time.Duration(cfg.Transfer.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open USB device: %w", err)
	}

	return gl100.New(usb), usb, nil
}
