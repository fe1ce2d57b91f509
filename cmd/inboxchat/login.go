package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/spf13/cobra"
)

var loginSession string

// loginCmd opens the backend sign-in page and optionally stores a session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open the Google sign-in page of the backend",
	Long: `Opens the backend /auth/login page in your browser.

After signing in, copy the value of the "session" cookie and store it:
  inboxchat login --session <value>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if strings.TrimSpace(loginSession) != "" {
			return storeSession(e.manager, loginSession, out)
		}

		loginURL := e.client.LoginURL()
		fmt.Fprintf(out, "🔐 Sign in at: %s\n", loginURL)
		if err := e.browser.OpenURL(cmd.Context(), loginURL); err != nil {
			fmt.Fprintf(out, "⚠️  Could not open a browser (%v). Open the URL manually.\n", err)
		}
		fmt.Fprintln(out, "Then run: inboxchat login --session <value of the \"session\" cookie>")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginSession, "session", "", "Store this session cookie value in the config file")
}

// storeSession saves the session cookie to the loaded config file
func storeSession(manager *config.Manager, value string, out io.Writer) error {
	path := manager.ConfigPath()
	if path == "" {
		return fmt.Errorf("no config file location, set --config or %s", config.EnvConfigPath)
	}
	if err := manager.SetSessionCookie(value); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	fmt.Fprintf(out, "✅ Session saved to %s\n", path)
	return nil
}
