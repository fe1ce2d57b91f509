package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, session string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, SessionCookie: session, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectedErr string
	}{
		{"empty", "", "empty backend URL"},
		{"whitespace", "   ", "empty backend URL"},
		{"bad_scheme", "ftp://example.com", "must be http or https"},
		{"no_scheme", "example.com", "must be http or https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(Options{BaseURL: tt.url})
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestClient_LoginURL(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/auth/login", c.LoginURL())

	prefixed, err := NewClient(Options{BaseURL: "https://example.com/api"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/auth/login", prefixed.LoginURL())
}

func TestClient_Me_SendsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookieName)
		if err != nil || ck.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "ada@example.com", "name": "Ada", "picture": "https://pic"})
	})

	c := newTestClient(t, mux, "abc123")
	assert.True(t, c.HasSession())

	p, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Ada", p.DisplayName())
	assert.Equal(t, "A", p.Initial())
}

func TestClient_Me_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
	})

	c := newTestClient(t, mux, "")
	assert.False(t, c.HasSession())

	p, err := c.Me(context.Background())
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Not authenticated", se.Detail)
}

func TestClient_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"email":"a@b.c"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, AuthToken: "tok"})
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestClient_LatestEmails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/last5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"messages":[
			{"id":"m1","threadId":"t1","subject":"Hello","from":"Bob <bob@example.com>","snippet":"hi","body":"hi there","summary":"Bob says hi"},
			{"id":"m2","threadId":"t2","subject":"","from":"","snippet":"","body":""}
		]}`))
	})

	c := newTestClient(t, mux, "s")
	emails, err := c.LatestEmails(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "m1", emails[0].ID)
	assert.Equal(t, "t1", emails[0].ThreadID)
	assert.Equal(t, "Bob says hi", emails[0].Summary)
	assert.Empty(t, emails[1].Summary)
}

func TestClient_LatestEmails_EmptyInbox(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/last5", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})

	c := newTestClient(t, mux, "s")
	emails, err := c.LatestEmails(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, emails)
	assert.Empty(t, emails)
}

func TestClient_LatestEmails_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/last5", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"gmail list error: boom"}`))
	})

	c := newTestClient(t, mux, "s")
	_, err := c.LatestEmails(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.Contains(t, err.Error(), "gmail list error: boom")
}

func TestClient_GenerateReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/generate-reply/m1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"reply":"Thanks Bob!","email":{"id":"m1","subject":"Hello"}}`))
	})

	c := newTestClient(t, mux, "s")
	res, err := c.GenerateReply(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Thanks Bob!", res.Reply)
	assert.Equal(t, "Hello", res.Email.Subject)
}

func TestClient_GenerateReply_Quota(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/generate-reply/m1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"AI reply generation is temporarily unavailable (quota or model error)."}`))
	})

	c := newTestClient(t, mux, "s")
	_, err := c.GenerateReply(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
}

func TestClient_EmptyMessageID(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.GenerateReply(ctx, " ")
	assert.ErrorContains(t, err, "messageID cannot be empty")
	assert.ErrorContains(t, c.SendReply(ctx, "", "x"), "messageID cannot be empty")
	assert.ErrorContains(t, c.DeleteEmail(ctx, ""), "messageID cannot be empty")
}

func TestClient_SendReply(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		expectErr error
	}{
		{"sent", `{"status":"sent"}`, nil},
		{"other_status", `{"status":"queued"}`, ErrUnexpectedStatus},
		{"missing_status", `{}`, ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sendReplyRequest
			mux := http.NewServeMux()
			mux.HandleFunc("/gmail/send-reply/m1", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				_, _ = w.Write([]byte(tt.response))
			})

			c := newTestClient(t, mux, "s")
			err := c.SendReply(context.Background(), "m1", "Thanks!")
			assert.Equal(t, "Thanks!", got.ReplyText)
			if tt.expectErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectErr)
			}
		})
	}
}

func TestClient_DeleteEmail(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		response  string
		expectErr error
	}{
		{"deleted", http.StatusOK, `{"status":"deleted"}`, nil},
		{"unexpected", http.StatusOK, `{"status":"kept"}`, ErrUnexpectedStatus},
		{"not_found", http.StatusNotFound, `{"detail":"Not Found"}`, ErrNotFound},
		{"expired_session", http.StatusUnauthorized, `{"detail":"Not authenticated"}`, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/gmail/delete/m1", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			})

			c := newTestClient(t, mux, "s")
			err := c.DeleteEmail(context.Background(), "m1")
			if tt.expectErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectErr)
			}
		})
	}
}

func TestClient_Logout_ClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://frontend.invalid/", http.StatusFound)
	})

	c := newTestClient(t, mux, "abc")
	require.True(t, c.HasSession())

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, c.HasSession())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_NetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.LatestEmails(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "backend returned 502 Bad Gateway", (&StatusError{Code: 502}).Error())
	assert.Equal(t, "backend returned 400: bad", (&StatusError{Code: 400, Detail: "bad"}).Error())
	assert.Nil(t, (&StatusError{Code: 400}).Unwrap())
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
