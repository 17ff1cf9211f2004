package cmd

import (
	"fmt"

	"github.com/shpala/gl100/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gl100 configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Write the built-in defaults to the config file location so they can be edited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			return fmt.Errorf("cannot determine config path, pass --config")
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Device:   VID=%04X PID=%04X\n", cfg.Device.VendorID, cfg.Device.ProductID)
		fmt.Printf("Timeout:  %ds per transfer\n", cfg.Transfer.TimeoutSeconds)
		dir := cfg.Output.Directory
		if dir == "" {
			dir = "(current directory)"
		}
		fmt.Printf("Output:   %s\n", dir)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
