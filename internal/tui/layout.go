package tui

import (
	"fmt"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// newFrame wraps a primitive in a bordered Flex styled with the theme
func (a *App) newFrame(title string) *tview.Flex {
	f := tview.NewFlex().SetDirection(tview.FlexRow)
	f.SetBackgroundColor(a.bgColor())
	f.SetBorder(a.Config.Layout.ShowBorders).
		SetBorderColor(a.borderColor(false)).
		SetBorderAttributes(tcell.AttrBold).
		SetTitle(title).
		SetTitleColor(a.titleColor()).
		SetTitleAlign(tview.AlignLeft)
	return f
}

// initComponents initializes the main UI components
func (a *App) initComponents() {
	header := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	header.SetBackgroundColor(a.bgColor())
	header.SetTextColor(a.fgColor())

	inbox := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWrap(true).
		SetScrollable(true)
	inbox.SetBackgroundColor(a.bgColor())
	inbox.SetTextColor(a.fgColor())

	inboxFrame := a.newFrame(inboxTitle(false, a.Keys.Refresh))
	inboxFrame.AddItem(inbox, 0, 1, false)

	transcript := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetScrollable(true)
	transcript.SetBackgroundColor(a.bgColor())
	transcript.SetTextColor(a.fgColor())

	a.input = a.newChatInput()

	chatFrame := a.newFrame(chatTitle(-1, a.colors()))
	chatFrame.AddItem(transcript, 0, 1, false)
	chatFrame.AddItem(a.input, 1, 0, true)

	status := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignLeft)
	status.SetBackgroundColor(a.colors().Inbox.SelectedBgColor.Color())
	status.SetTextColor(a.fgColor())
	status.SetText(a.statusBaseline())

	flash := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)
	flash.SetBackgroundColor(a.colors().Inbox.SelectedBgColor.Color())

	a.header = header
	a.inbox = inbox
	a.inboxFrame = inboxFrame
	a.transcript = transcript
	a.chatFrame = chatFrame
	a.status = status
	a.flash = flash

	a.views["header"] = header
	a.views["inbox"] = inbox
	a.views["inboxFrame"] = inboxFrame
	a.views["transcript"] = transcript
	a.views["chatFrame"] = chatFrame
	a.views["input"] = a.input
	a.views["status"] = status
	a.views["flash"] = flash
}

// initViews builds the pages
func (a *App) initViews() {
	a.root = tview.NewFlex().SetDirection(tview.FlexRow)
	a.root.SetBackgroundColor(a.bgColor())
	a.buildMainLayout()

	a.Pages.AddPage(pageMain, a.root, true, true)
	a.Pages.AddPage(pageLogin, a.createLoginView(), true, false)
	a.Pages.AddPage(pageHelp, a.createHelpView(), true, false)
	a.currentPage = pageMain
}

// isWideScreen reports whether the inbox and chat fit side by side
func isWideScreen(width, height int, bp config.LayoutBreakpoint) bool {
	return width >= bp.Width && height >= bp.Height
}

// updateLayout switches between side-by-side and stacked panes after a resize
func (a *App) updateLayout() {
	wide := isWideScreen(a.screenWidth, a.screenHeight, a.Config.Layout.WideBreakpoint)
	if wide == a.wide {
		return
	}
	a.wide = wide
	a.buildMainLayout()
}

// buildMainLayout fills the root flex for the current screen class
func (a *App) buildMainLayout() {
	a.root.Clear()

	left := tview.NewFlex().SetDirection(tview.FlexRow)
	left.SetBackgroundColor(a.bgColor())
	left.AddItem(a.header, 2, 0, false)
	left.AddItem(a.inboxFrame, 0, 1, false)

	body := tview.NewFlex()
	body.SetBackgroundColor(a.bgColor())
	if a.wide {
		body.SetDirection(tview.FlexColumn)
		body.AddItem(left, 0, 2, false)
		body.AddItem(a.chatFrame, 0, 3, true)
	} else {
		body.SetDirection(tview.FlexRow)
		body.AddItem(left, 0, 1, false)
		body.AddItem(a.chatFrame, 0, 1, true)
	}

	statusBar := tview.NewFlex().SetDirection(tview.FlexColumn)
	statusBar.AddItem(a.status, 0, 2, false)
	statusBar.AddItem(a.flash, 0, 1, false)

	a.root.AddItem(body, 0, 1, true)
	a.root.AddItem(statusBar, 1, 0, false)
}

// renderHeader renders the account line above the inbox
func renderHeader(snap services.Snapshot, a *App) string {
	c := a.colors()
	if snap.Profile == nil {
		return colorTag(c.Inbox.SummaryColor) + "Not signed in[-]"
	}
	return fmt.Sprintf("%s ( %s ) [-::-]%sLogged in as[-] %s%s[-::-]\n%s%s logout · %s help · Tab switch focus[-]",
		boldTag(c.Body.AccentColor), tview.Escape(snap.Profile.Initial()),
		colorTag(c.Inbox.SummaryColor),
		boldTag(c.Body.FgColor), tview.Escape(snap.Profile.DisplayName()),
		colorTag(c.Inbox.SummaryColor), tview.Escape(a.Keys.Logout), tview.Escape(a.Keys.Help))
}

// refreshHeader redraws the account header. Must run on the UI goroutine.
func (a *App) refreshHeader(snap services.Snapshot) {
	if a.header != nil {
		a.header.SetText(renderHeader(snap, a))
	}
	if a.status != nil && a.errorHandler != nil {
		a.errorHandler.RefreshBaseline()
	}
}

// setFocus moves focus on the main page and recolors the frames
func (a *App) setFocus(target string) {
	a.currentFocus = target
	switch target {
	case focusInbox:
		a.SetFocus(a.inbox)
	default:
		a.currentFocus = focusInput
		a.SetFocus(a.input)
	}
	a.updateFocusIndicators()
}

// toggleFocus switches between the inbox and the chat input
func (a *App) toggleFocus() {
	if a.currentFocus == focusInbox {
		a.setFocus(focusInput)
		return
	}
	a.setFocus(focusInbox)
}

// updateFocusIndicators highlights the frame holding focus
func (a *App) updateFocusIndicators() {
	if a.inboxFrame != nil {
		a.inboxFrame.SetBorderColor(a.borderColor(a.currentFocus == focusInbox))
	}
	if a.chatFrame != nil {
		a.chatFrame.SetBorderColor(a.borderColor(a.currentFocus == focusInput))
	}
}

// showMain switches to the dashboard page. Must run on the UI goroutine.
func (a *App) showMain() {
	a.Pages.SwitchToPage(pageMain)
	a.currentPage = pageMain
	a.setFocus(a.currentFocus)
}
