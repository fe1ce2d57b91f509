package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	authorized bool
	deletes    atomic.Int32
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !f.authorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/auth/me":
		_ = json.NewEncoder(w).Encode(backend.Profile{Email: "ada@example.com", Name: "Ada"})
	case r.URL.Path == "/gmail/last5":
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": []backend.Email{
			{ID: "m1", Subject: "Lunch", From: "Bob"},
			{ID: "m2", Subject: "Invoice", From: "Carol"},
		}})
	case r.URL.Path == "/gmail/generate-reply/m2" && r.Method == http.MethodPost:
		_ = json.NewEncoder(w).Encode(backend.ReplyResult{Reply: "Thanks, paid."})
	case r.URL.Path == "/gmail/delete/m1" && r.Method == http.MethodDelete:
		f.deletes.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestAssistant(t *testing.T, fb *fakeBackend) *services.AssistantServiceImpl {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(backend.Options{BaseURL: srv.URL, SessionCookie: "abc"})
	require.NoError(t, err)
	return services.NewAssistantService(client, nil, nil, nil)
}

func TestAsk_GenerateReply(t *testing.T) {
	assistant := newTestAssistant(t, &fakeBackend{authorized: true})
	var out bytes.Buffer

	err := ask(context.Background(), assistant, "Generate reply for email 2", askOptions{Prefetch: true}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Here's a suggested reply for email 2:")
	assert.Contains(t, out.String(), "Thanks, paid.")
	assert.NotContains(t, out.String(), "Here are your latest 5 emails")
}

func TestAsk_ShowLatestSkipsPrefetch(t *testing.T) {
	assistant := newTestAssistant(t, &fakeBackend{authorized: true})
	var out bytes.Buffer

	err := ask(context.Background(), assistant, "Show my last 5 emails", askOptions{Prefetch: true}, &out)

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "Here are your latest 5 emails"))
	assert.Contains(t, out.String(), "1) Lunch")
}

func TestAsk_DeleteNeedsYes(t *testing.T) {
	fb := &fakeBackend{authorized: true}
	assistant := newTestAssistant(t, fb)
	var out bytes.Buffer

	err := ask(context.Background(), assistant, "Delete email 1", askOptions{Prefetch: true}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Are you sure you want to delete email 1")
	assert.Contains(t, out.String(), "Re-run with --yes")
	assert.Equal(t, int32(0), fb.deletes.Load())
}

func TestAsk_DeleteConfirmed(t *testing.T) {
	fb := &fakeBackend{authorized: true}
	assistant := newTestAssistant(t, fb)
	var out bytes.Buffer

	err := ask(context.Background(), assistant, "Delete email 1", askOptions{Prefetch: true, ConfirmDelete: true}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Email 1 has been deleted")
	assert.Equal(t, int32(1), fb.deletes.Load())
}

func TestAsk_NotSignedIn(t *testing.T) {
	assistant := newTestAssistant(t, &fakeBackend{authorized: false})
	var out bytes.Buffer

	err := ask(context.Background(), assistant, "Show my last 5 emails", askOptions{}, &out)

	require.Error(t, err)
	assert.True(t, services.IsAuthError(err))
	assert.Contains(t, err.Error(), "inboxchat login")
}

func TestAsk_EmptyRequest(t *testing.T) {
	err := ask(context.Background(), nil, "   ", askOptions{}, &bytes.Buffer{})

	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestStoreSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manager := config.NewManager()
	require.NoError(t, manager.LoadFromFile(path))
	var out bytes.Buffer

	require.NoError(t, storeSession(manager, " secret ", &out))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	if os.Getenv(config.EnvSession) == "" {
		assert.Equal(t, "secret", loaded.Backend.SessionCookie)
	}
	assert.Contains(t, out.String(), "Session saved to "+path)
}

func TestStoreSession_NoPath(t *testing.T) {
	err := storeSession(config.NewManager(), "secret", &bytes.Buffer{})

	assert.Error(t, err)
}

func TestRunSetup_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.json")
	var out bytes.Buffer

	require.NoError(t, runSetup(strings.NewReader("\n"), &out, path, false))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Created configuration file")
	_, err = os.Stat(filepath.Join(dir, ".config", "inboxchat", "themes", "dark.yaml"))
	assert.NoError(t, err)
}

func TestRunSetup_Declined(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, runSetup(strings.NewReader("n\n"), &bytes.Buffer{}, path, false))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"no\n", false},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &bytes.Buffer{}, "? "), tt.input)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"ask", "login", "setup", "version"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, askCmd.Flags().Lookup("yes"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)

	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "inboxchat")
}
