package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"
)

// LogLevel represents the severity of a message
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
	LogLevelSuccess
)

const (
	statusClearAfter = 5 * time.Second
	flashDuration    = 3 * time.Second
)

// ErrorHandler provides consistent error handling and user feedback
type ErrorHandler struct {
	mu         sync.RWMutex
	app        *tview.Application
	appRef     *App // for the baseline status and theme colors
	statusView *tview.TextView
	flashView  *tview.TextView
	logger     *zap.Logger

	currentStatus    string
	persistentStatus string
	statusTimer      *time.Timer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(app *tview.Application, appRef *App, statusView *tview.TextView, flashView *tview.TextView, logger *zap.Logger) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{
		app:        app,
		appRef:     appRef,
		statusView: statusView,
		flashView:  flashView,
		logger:     logger,
	}
}

func (eh *ErrorHandler) log() *zap.Logger {
	if eh.logger == nil {
		return zap.NewNop()
	}
	return eh.logger
}

// HandleError logs err and shows userMsg in the status bar
func (eh *ErrorHandler) HandleError(ctx context.Context, err error, userMsg string) {
	if err == nil {
		return
	}

	eh.log().Error("operation failed", zap.String("message", userMsg), zap.Error(err))

	if userMsg == "" {
		userMsg = "An error occurred"
	}

	eh.ShowMessage(ctx, userMsg, LogLevelError)
}

// ShowMessage displays a message to the user
func (eh *ErrorHandler) ShowMessage(ctx context.Context, msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}

	formatted := eh.formatMessage(msg, level)
	eh.log().Debug("status message", zap.String("level", eh.levelToString(level)), zap.String("message", msg))

	eh.queue(func() {
		eh.updateStatusMessage(formatted, level)
	})
}

// ShowPersistentMessage shows a status message that stays until cleared
func (eh *ErrorHandler) ShowPersistentMessage(ctx context.Context, msg string, level LogLevel) {
	formatted := eh.formatMessage(msg, level)

	eh.mu.Lock()
	eh.persistentStatus = formatted
	eh.mu.Unlock()

	eh.queue(func() {
		eh.updatePersistentStatus(formatted)
	})
}

// ClearPersistentMessage clears the persistent status message
func (eh *ErrorHandler) ClearPersistentMessage() {
	eh.mu.Lock()
	eh.persistentStatus = ""
	eh.mu.Unlock()

	eh.queue(func() {
		eh.updatePersistentStatus("")
	})
}

// ShowFlashMessage shows a temporary message on the right of the status bar
func (eh *ErrorHandler) ShowFlashMessage(ctx context.Context, msg string, level LogLevel, duration time.Duration) {
	if eh.flashView == nil {
		eh.ShowMessage(ctx, msg, level)
		return
	}

	formatted := eh.formatMessage(msg, level)
	eh.queue(func() {
		eh.flashView.SetText(tview.Escape(formatted))
		eh.flashView.SetTextColor(eh.levelToColor(level))

		time.AfterFunc(duration, func() {
			eh.queue(func() {
				if eh.flashView.GetText(true) == formatted {
					eh.flashView.SetText("")
				}
			})
		})
	})
}

// queue runs fn on the UI goroutine, or inline when there is no application
func (eh *ErrorHandler) queue(fn func()) {
	if eh.app == nil {
		fn()
		return
	}
	if eh.appRef != nil && !eh.appRef.uiReady.Load() {
		fn()
		return
	}
	eh.app.QueueUpdateDraw(fn)
}

// formatMessage prefixes a message with the level icon
func (eh *ErrorHandler) formatMessage(msg string, level LogLevel) string {
	var icon string

	switch level {
	case LogLevelInfo:
		icon = "ℹ️"
	case LogLevelWarning:
		icon = "⚠️"
	case LogLevelError:
		icon = "❌"
	case LogLevelSuccess:
		icon = "✅"
	default:
		icon = "•"
	}

	return fmt.Sprintf("%s %s", icon, msg)
}

func (eh *ErrorHandler) levelToString(level LogLevel) string {
	switch level {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// levelToColor converts LogLevel to a theme-aware color
func (eh *ErrorHandler) levelToColor(level LogLevel) tcell.Color {
	switch level {
	case LogLevelWarning:
		return eh.appRef.getStatusColor("warning")
	case LogLevelError:
		return eh.appRef.getStatusColor("error")
	case LogLevelSuccess:
		return eh.appRef.getStatusColor("success")
	default:
		return eh.appRef.getStatusColor("info")
	}
}

// updateStatusMessage sets the status text and schedules its removal
func (eh *ErrorHandler) updateStatusMessage(msg string, level LogLevel) {
	if eh.statusView == nil {
		return
	}

	eh.mu.Lock()
	defer eh.mu.Unlock()

	if eh.statusTimer != nil {
		eh.statusTimer.Stop()
	}

	eh.currentStatus = msg
	eh.statusView.SetTextColor(eh.levelToColor(level))
	eh.refreshStatusDisplay()

	if level != LogLevelInfo || eh.persistentStatus == "" {
		expected := msg
		eh.statusTimer = time.AfterFunc(statusClearAfter, func() {
			eh.clearCurrentStatusSafely(expected)
		})
	}
}

// clearCurrentStatusSafely clears the status only if no newer message replaced it
func (eh *ErrorHandler) clearCurrentStatusSafely(expectedMsg string) {
	eh.queue(func() {
		eh.mu.Lock()
		defer eh.mu.Unlock()

		if eh.currentStatus == expectedMsg {
			eh.currentStatus = ""
			if eh.statusView != nil {
				eh.statusView.SetTextColor(eh.appRef.fgColor())
			}
			eh.refreshStatusDisplay()
		}
	})
}

func (eh *ErrorHandler) updatePersistentStatus(msg string) {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	eh.persistentStatus = msg
	eh.refreshStatusDisplay()
}

// RefreshBaseline redraws the status bar, picking up a new baseline. Must run on the UI goroutine.
func (eh *ErrorHandler) RefreshBaseline() {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	eh.refreshStatusDisplay()
}

// refreshStatusDisplay shows the current, persistent or baseline text. Callers hold mu.
func (eh *ErrorHandler) refreshStatusDisplay() {
	if eh.statusView == nil {
		return
	}

	var text string
	switch {
	case eh.currentStatus != "":
		text = tview.Escape(eh.currentStatus)
	case eh.persistentStatus != "":
		text = tview.Escape(eh.persistentStatus)
	default:
		text = eh.getBaselineStatus()
	}

	eh.statusView.SetText(text)
}

func (eh *ErrorHandler) getBaselineStatus() string {
	if eh.appRef != nil {
		return eh.appRef.statusBaseline()
	}
	return "inboxchat • Press ? for help"
}

// ShowInfo shows an info message
func (eh *ErrorHandler) ShowInfo(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelInfo)
}

// ShowWarning shows a warning message
func (eh *ErrorHandler) ShowWarning(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelWarning)
}

// ShowError shows an error message
func (eh *ErrorHandler) ShowError(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelError)
}

// ShowSuccess shows a success message
func (eh *ErrorHandler) ShowSuccess(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelSuccess)
}

// ShowBackendError reports a failed backend operation with a short reason
func (eh *ErrorHandler) ShowBackendError(ctx context.Context, operation string, err error) {
	eh.HandleError(ctx, err, fmt.Sprintf("%s failed: %s", operation, backendReason(err)))
}

// backendReason turns backend errors into a few words for the status bar
func backendReason(err error) string {
	switch {
	case errors.Is(err, backend.ErrQuotaExceeded):
		return "AI quota exceeded"
	case errors.Is(err, backend.ErrTimeout):
		return "request timed out"
	case errors.Is(err, backend.ErrNetworkUnavailable):
		return "backend unreachable"
	case errors.Is(err, backend.ErrServiceUnavailable):
		return "backend unavailable"
	case errors.Is(err, backend.ErrNotFound):
		return "email not found"
	default:
		return "unexpected error"
	}
}

// ShowProgress shows a progress message
func (eh *ErrorHandler) ShowProgress(ctx context.Context, msg string) {
	eh.ShowPersistentMessage(ctx, msg, LogLevelInfo)
}

// ClearProgress clears any progress message
func (eh *ErrorHandler) ClearProgress() {
	eh.ClearPersistentMessage()
}
