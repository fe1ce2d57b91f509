package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// BrowserServiceImpl opens backend pages (the Google sign-in flow) in the
// system browser
type BrowserServiceImpl struct {
	goos  string
	start func(*exec.Cmd) error
}

// NewBrowserService creates a new browser service
func NewBrowserService() *BrowserServiceImpl {
	return &BrowserServiceImpl{
		goos:  runtime.GOOS,
		start: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// OpenURL opens a URL using the system default browser
func (s *BrowserServiceImpl) OpenURL(ctx context.Context, rawURL string) error {
	if err := s.ValidateURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	cmd, err := s.command(ctx, rawURL)
	if err != nil {
		return err
	}

	// Start the command (non-blocking)
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}

	return nil
}

func (s *BrowserServiceImpl) command(ctx context.Context, rawURL string) (*exec.Cmd, error) {
	switch s.goos {
	case "darwin":
		return exec.CommandContext(ctx, "open", rawURL), nil
	case "linux", "freebsd", "openbsd":
		return exec.CommandContext(ctx, "xdg-open", rawURL), nil
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

// ValidateURL accepts only absolute http and https URLs
func (s *BrowserServiceImpl) ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	switch strings.ToLower(parsedURL.Scheme) {
	case "http", "https":
	case "":
		return fmt.Errorf("URL missing scheme")
	default:
		return fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("URL missing host")
	}

	return nil
}
