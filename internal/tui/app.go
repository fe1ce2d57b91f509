package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"
)

// Page names
const (
	pageMain  = "main"
	pageLogin = "login"
	pageHelp  = "help"
)

// Focus targets on the main page
const (
	focusInbox = "inbox"
	focusInput = "input"
)

// chatQueueSize bounds the chat lines waiting for the worker
const chatQueueSize = 16

// SessionClient is the part of the backend client the UI needs for sign-in
type SessionClient interface {
	LoginURL() string
	SetSession(value string)
	HasSession() bool
}

// Dependencies are the collaborators handed to NewApp
type Dependencies struct {
	Assistant     services.AssistantService
	Session       SessionClient
	Browser       services.BrowserService
	ConfigManager *config.Manager
	Theme         *config.ColorsConfig
	Logger        *zap.Logger
}

// App encapsulates the terminal UI and the assistant session
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config
	Keys   config.KeyBindings

	assistant  services.AssistantService
	session    SessionClient
	browser    services.BrowserService
	cfgManager *config.Manager
	theme      *config.ColorsConfig
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	views  map[string]tview.Primitive

	errorHandler *ErrorHandler
	chatQueue    chan string

	// Main page widgets
	root       *tview.Flex
	header     *tview.TextView
	inbox      *tview.TextView
	inboxFrame *tview.Flex
	transcript *tview.TextView
	chatFrame  *tview.Flex
	input      *tview.InputField
	status     *tview.TextView
	flash      *tview.TextView

	// Login page widgets
	loginText  *tview.TextView
	loginInput *tview.InputField

	selected     int
	currentPage  string
	previousPage string
	currentFocus string
	loginReason  string

	uiReady      atomic.Bool
	wide         bool
	screenWidth  int
	screenHeight int
}

// NewApp creates the dashboard
func NewApp(cfg *config.Config, deps Dependencies) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := deps.Theme
	if theme == nil {
		theme = config.DefaultColors()
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Application:  tview.NewApplication(),
		Pages:        tview.NewPages(),
		Config:       cfg,
		Keys:         cfg.Keys,
		assistant:    deps.Assistant,
		session:      deps.Session,
		browser:      deps.Browser,
		cfgManager:   deps.ConfigManager,
		theme:        theme,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		views:        make(map[string]tview.Primitive),
		chatQueue:    make(chan string, chatQueueSize),
		selected:     -1,
		currentFocus: focusInput,
		wide:         true,
		screenWidth:  cfg.Layout.WideBreakpoint.Width,
		screenHeight: cfg.Layout.WideBreakpoint.Height,
	}

	app.initComponents()
	app.initErrorHandler()
	app.bindKeys()
	app.initViews()

	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		if app.uiReady.CompareAndSwap(false, true) {
			app.refresh()
		}
		w, h := screen.Size()
		if w != app.screenWidth || h != app.screenHeight {
			app.screenWidth, app.screenHeight = w, h
			app.updateLayout()
		}
		return false
	})

	if app.assistant != nil {
		app.assistant.OnChange(app.onAssistantChange)
	}
	go app.chatWorker()

	return app
}

func (a *App) initErrorHandler() {
	a.errorHandler = NewErrorHandler(a.Application, a, a.status, a.flash, a.logger)
}

// GetErrorHandler returns the status and flash message handler
func (a *App) GetErrorHandler() *ErrorHandler {
	return a.errorHandler
}

// Run shows the dashboard and blocks until the user quits
func (a *App) Run() error {
	a.SetRoot(a.Pages, true)
	a.showMain()
	a.bootstrap()

	err := a.Application.Run()
	a.cancel()
	return err
}

// Stop cancels in-flight requests and stops the UI loop
func (a *App) Stop() {
	a.cancel()
	a.Application.Stop()
}

// bootstrap checks the session in the background and opens the login page when it is missing
func (a *App) bootstrap() {
	if a.assistant == nil {
		a.showLoginAsync("No backend configured.")
		return
	}
	a.errorHandler.ShowProgress(a.ctx, "Checking session...")
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
		defer cancel()

		profile, err := a.assistant.Bootstrap(ctx)
		a.errorHandler.ClearProgress()
		if err != nil {
			a.logger.Warn("bootstrap failed", zap.Error(err))
			if services.IsAuthError(err) {
				a.showLoginAsync("Your session is missing or expired.")
			} else {
				a.showLoginAsync("Could not reach the backend: " + err.Error())
			}
			return
		}

		a.logger.Info("dashboard ready", zap.String("account", profile.Email))
		a.QueueUpdateDraw(func() {
			a.showMain()
			a.refresh()
		})
		a.errorHandler.ShowSuccess(ctx, "Logged in as "+profile.DisplayName())
	}()
}

// runAsync runs an assistant operation off the UI goroutine
func (a *App) runAsync(op string, fn func(ctx context.Context) error) {
	if a.assistant == nil {
		return
	}
	go a.runOp(op, fn)
}

// runOp runs an assistant operation with the request timeout and reports its error
func (a *App) runOp(op string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	a.logger.Debug("ui operation finished",
		zap.String("op", op),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	if err != nil {
		a.handleAsyncError(ctx, op, err)
	}
}

// chatWorker hands chat lines to the assistant one at a time, in the order
// they were typed
func (a *App) chatWorker() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case text := <-a.chatQueue:
			if a.assistant == nil {
				continue
			}
			a.runOp("chat", func(ctx context.Context) error {
				return a.assistant.HandleInput(ctx, text)
			})
		}
	}
}

// handleAsyncError maps operation errors to status feedback
func (a *App) handleAsyncError(ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case services.IsAuthError(err):
		a.showLoginAsync("Your session expired. Sign in again.")
	case errors.Is(err, services.ErrInvalidIndex):
		a.errorHandler.ShowWarning(ctx, "Select an email first")
	case errors.Is(err, services.ErrReplyNotGenerated):
		a.errorHandler.ShowWarning(ctx, "Generate a reply first")
	case errors.Is(err, services.ErrNoPendingDelete):
		a.errorHandler.ShowWarning(ctx, "Nothing to confirm")
	case errors.Is(err, services.ErrDeletePending):
		a.errorHandler.ShowWarning(ctx, "Answer yes or no to the delete first")
	default:
		a.errorHandler.ShowBackendError(ctx, op, err)
	}
}

// onAssistantChange redraws after the assistant state changes
func (a *App) onAssistantChange() {
	if !a.uiReady.Load() {
		return
	}
	a.QueueUpdateDraw(a.refresh)
}

// refresh redraws every pane from a fresh snapshot. Must run on the UI goroutine.
func (a *App) refresh() {
	if a.assistant == nil {
		return
	}
	snap := a.assistant.Snapshot()
	a.refreshHeader(snap)
	a.refreshInbox(snap)
	a.refreshTranscript(snap)
}
