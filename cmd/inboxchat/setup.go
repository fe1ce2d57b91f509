package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/spf13/cobra"
)

var setupYes bool

// setupCmd writes the default configuration and theme
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the default configuration file and theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		if path == "" {
			return fmt.Errorf("could not determine the config file location")
		}
		return runSetup(cmd.InOrStdin(), cmd.OutOrStdout(), path, setupYes)
	},
}

func init() {
	setupCmd.Flags().BoolVarP(&setupYes, "yes", "y", false, "Do not ask before creating files")
}

// runSetup creates the config file when missing and writes the default theme
func runSetup(in io.Reader, out io.Writer, path string, assumeYes bool) error {
	fmt.Fprintln(out, "📨 inboxchat setup")
	fmt.Fprintln(out, "==================")
	fmt.Fprintln(out)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("existing config is not valid JSON: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "✅ Configuration file already exists: %s\n", path)
	} else {
		fmt.Fprintf(out, "📝 Will create configuration file: %s\n", path)
		if assumeYes || confirm(in, out, "📄 Create default configuration file? [Y/n]: ") {
			if err := config.DefaultConfig().SaveConfig(path); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Fprintf(out, "✅ Created configuration file: %s\n", path)
		}
	}

	loader := config.NewThemeLoader(cfg.ThemeDir())
	if err := loader.CreateDefaultTheme(); err != nil {
		fmt.Fprintf(out, "⚠️  Could not write the dark theme: %v\n", err)
	} else {
		fmt.Fprintf(out, "🎨 Themes directory: %s\n", cfg.ThemeDir())
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "🔐 Backend: %s\n", cfg.Backend.URL)
	fmt.Fprintln(out, "   Run 'inboxchat login' to sign in, then start 'inboxchat'.")
	return nil
}

// confirm reads a yes/no answer, treating an empty line as yes
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}
