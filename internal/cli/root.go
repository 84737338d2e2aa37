package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/freelancedesk/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "freelancedesk",
	Short: "Business management backend for freelancers",
	Long: `Freelancedesk manages clients, projects, tasks, time tracking,
trials, expenses, and invoices behind a token-authenticated REST API.

Run 'freelancedesk serve' to start the API server.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(versionCmd)
}
