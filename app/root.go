// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "appbeacon",
	Short: "appbeacon is a remote-configuration and update-notification backend",
	Long: `appbeacon is the backend for a mobile app's remote configuration:
it tracks registered devices, serves app-wide settings (welcome text,
proxy configuration, minimum version) and lets an administrator push
notifications to all registered devices.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
