package main

import (
	"fmt"
	"os"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/tui"
	"github.com/ajramos/inboxchat/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	showVersion bool
)

// rootCmd starts the dashboard
var rootCmd = &cobra.Command{
	Use:   "inboxchat",
	Short: "Chat with your Gmail inbox from the terminal",
	Long: `inboxchat is a terminal dashboard for an AI email assistant backend.

It shows your latest emails next to a chat where you can ask for the last
5 emails, generate and send AI replies, and delete emails after a
confirmation.

Environment Variables:
  INBOXCHAT_CONFIG       Override default config file path
  INBOXCHAT_BACKEND_URL  Override the backend URL
  INBOXCHAT_SESSION      Backend session cookie value`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersionString())
			return nil
		}
		return runDashboard()
	},
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersionString())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON configuration file (default: ~/.config/inboxchat/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information and exit")

	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "Confirm a delete request without asking")
	askCmd.Flags().BoolVar(&askPrefetch, "prefetch", true, "Load the last 5 emails before running the request")

	rootCmd.AddCommand(askCmd, loginCmd, setupCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runDashboard wires the services and runs the terminal UI
func runDashboard() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	theme, err := config.NewThemeLoader(e.cfg.ThemeDir()).LoadTheme(e.cfg.Layout.CurrentTheme)
	if err != nil {
		e.logger.Warn("falling back to the default theme", zap.String("theme", e.cfg.Layout.CurrentTheme), zap.Error(err))
		theme = config.DefaultColors()
	}

	app := tui.NewApp(e.cfg, tui.Dependencies{
		Assistant:     e.assistant,
		Session:       e.client,
		Browser:       e.browser,
		ConfigManager: e.manager,
		Theme:         theme,
		Logger:        e.logger,
	})

	e.logger.Info("starting dashboard",
		zap.String("version", version.Version),
		zap.String("backend", e.client.BaseURL()))

	if err := app.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}
