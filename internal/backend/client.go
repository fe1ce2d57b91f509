package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
)

// SessionCookieName is the cookie the backend uses to track the signed-in user
const SessionCookieName = "session"

const maxErrorBody = 64 << 10

// Options configures a backend Client
type Options struct {
	BaseURL       string
	SessionCookie string
	AuthToken     string
	Timeout       time.Duration
	Logger        *zap.Logger
	// HTTPClient is used as the base transport when set
	HTTPClient *http.Client
}

// Client talks to the assistant backend over HTTP
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     *sessionJar
	logger  *zap.Logger
}

// NewClient creates a backend client
func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("empty backend URL")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend URL must be http or https: %q", raw)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	baseClient := opts.HTTPClient
	if baseClient == nil {
		baseClient = &http.Client{}
	}

	var hc *http.Client
	if token := strings.TrimSpace(opts.AuthToken); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	} else {
		hc = &http.Client{Transport: baseClient.Transport}
	}
	hc.Jar = jar
	hc.Timeout = opts.Timeout

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL: base,
		http:    hc,
		jar:     jar,
		logger:  logger,
	}
	if cookie := strings.TrimSpace(opts.SessionCookie); cookie != "" {
		c.SetSession(cookie)
	}
	return c, nil
}

// BaseURL returns the configured backend URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// LoginURL is the page that starts the backend's Google sign-in flow
func (c *Client) LoginURL() string {
	return c.baseURL.JoinPath("auth", "login").String()
}

// SetSession installs a session cookie value obtained from the browser login
func (c *Client) SetSession(value string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  SessionCookieName,
		Value: value,
		Path:  "/",
	}})
}

// HasSession reports whether a session cookie is held for the backend
func (c *Client) HasSession() bool {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return true
		}
	}
	return false
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, []string{"auth", "me"}, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestEmails returns the five most recent inbox messages with AI summaries
func (c *Client) LatestEmails(ctx context.Context) ([]Email, error) {
	var res messagesResponse
	if err := c.do(ctx, http.MethodGet, []string{"gmail", "last5"}, nil, &res); err != nil {
		return nil, err
	}
	if res.Messages == nil {
		return []Email{}, nil
	}
	return res.Messages, nil
}

// GenerateReply asks the backend to draft a reply for a message
func (c *Client) GenerateReply(ctx context.Context, messageID string) (*ReplyResult, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, fmt.Errorf("messageID cannot be empty")
	}
	var res ReplyResult
	if err := c.do(ctx, http.MethodPost, []string{"gmail", "generate-reply", messageID}, struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendReply sends replyText as a reply to the message
func (c *Client) SendReply(ctx context.Context, messageID, replyText string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	var res statusResponse
	if err := c.do(ctx, http.MethodPost, []string{"gmail", "send-reply", messageID}, sendReplyRequest{ReplyText: replyText}, &res); err != nil {
		return err
	}
	if res.Status != "sent" {
		return fmt.Errorf("%w: %q", ErrUnexpectedStatus, res.Status)
	}
	return nil
}

// DeleteEmail deletes the message from the mailbox
func (c *Client) DeleteEmail(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	var res statusResponse
	if err := c.do(ctx, http.MethodDelete, []string{"gmail", "delete", messageID}, nil, &res); err != nil {
		return err
	}
	if res.Status != "deleted" {
		return fmt.Errorf("%w: %q", ErrUnexpectedStatus, res.Status)
	}
	return nil
}

// Logout ends the backend session and drops the local cookies.
// Local cookies are dropped even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.jar.Reset()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath("auth", "logout").String(), nil)
	if err != nil {
		return err
	}
	// The backend answers with a redirect to the web login page; don't follow it
	hc := *c.http
	hc.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := hc.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, segments []string, body, out any) error {
	endpoint := c.baseURL.JoinPath(segments...).String()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return transportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{Code: resp.StatusCode}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			se.Detail = s
		} else {
			se.Detail = string(payload.Detail)
		}
	} else {
		se.Detail = strings.TrimSpace(string(data))
	}
	return se
}

func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
}

// sessionJar is a cookie jar that can be reset on logout while the
// http.Client keeps pointing at it
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	j := &sessionJar{}
	if err := j.reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}

// Reset drops all cookies
func (j *sessionJar) Reset() {
	_ = j.reset()
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}
