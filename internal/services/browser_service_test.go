package services

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserService_ValidateURL(t *testing.T) {
	s := NewBrowserService()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"https", "https://api.example.com/auth/login", ""},
		{"http_localhost", "http://localhost:8000/auth/login", ""},
		{"empty", "  ", "URL cannot be empty"},
		{"no_scheme", "localhost/auth/login", "URL missing scheme"},
		{"file_scheme", "file:///etc/passwd", "unsupported URL scheme"},
		{"javascript", "javascript:alert(1)", "unsupported URL scheme"},
		{"no_host", "http:///auth/login", "URL missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBrowserService_OpenURL(t *testing.T) {
	tests := []struct {
		goos string
		bin  string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var got *exec.Cmd
			s := &BrowserServiceImpl{goos: tt.goos, start: func(cmd *exec.Cmd) error {
				got = cmd
				return nil
			}}

			require.NoError(t, s.OpenURL(context.Background(), "http://localhost:8000/auth/login"))
			require.NotNil(t, got)
			assert.Equal(t, tt.bin, filepath.Base(got.Args[0]))
			assert.Equal(t, "http://localhost:8000/auth/login", got.Args[len(got.Args)-1])
		})
	}
}

func TestBrowserService_OpenURL_Errors(t *testing.T) {
	s := &BrowserServiceImpl{goos: "plan9", start: func(*exec.Cmd) error { return nil }}
	assert.ErrorContains(t, s.OpenURL(context.Background(), "https://example.com"), "unsupported platform")

	s = &BrowserServiceImpl{goos: "linux", start: func(*exec.Cmd) error { return errors.New("no display") }}
	assert.ErrorContains(t, s.OpenURL(context.Background(), "https://example.com"), "failed to open URL")

	assert.ErrorContains(t, s.OpenURL(context.Background(), ""), "invalid URL")
}
