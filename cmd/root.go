package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cafe-fulfillment",
	Short: "Order and reservation fulfillment core",
	Long:  `Runs the cafe fulfillment core: order lifecycle, reservation scheduling, loyalty ledger, review moderation and the admin notification feed`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory containing config.yaml")
}
