package tui

import (
	"fmt"
	"strings"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"
)

const pageThemes = "themes"

// themeChoices lists the built-in theme followed by the files in the themes directory
func themeChoices(loader *config.ThemeLoader) []string {
	names := []string{config.DefaultThemeName}
	files, err := loader.ListAvailableThemes()
	if err != nil {
		return names
	}
	for _, f := range files {
		name := strings.TrimSuffix(f, ".yaml")
		if name != config.DefaultThemeName {
			names = append(names, name)
		}
	}
	return names
}

// filterThemes keeps the names containing filter, case-insensitively
func filterThemes(names []string, filter string) []string {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return names
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), filter) {
			out = append(out, n)
		}
	}
	return out
}

func (a *App) themeLoader() *config.ThemeLoader {
	return config.NewThemeLoader(a.Config.ThemeDir())
}

// openThemePicker shows the theme list with a search field
func (a *App) openThemePicker() {
	loader := a.themeLoader()
	all := themeChoices(loader)
	current := a.Config.Layout.CurrentTheme
	if current == "" {
		current = config.DefaultThemeName
	}

	input := tview.NewInputField().
		SetLabel("🔍 Search: ").
		SetFieldWidth(30)
	input.SetBackgroundColor(a.bgColor())
	input.SetFieldBackgroundColor(a.colors().Chat.InputBgColor.Color())
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBackgroundColor(a.bgColor())
	list.SetMainTextColor(a.fgColor())

	var visible []string
	reload := func(filter string) {
		list.Clear()
		visible = filterThemes(all, filter)
		for _, name := range visible {
			label := "○ " + name
			if name == current {
				label = "✅ " + name
			}
			themeName := name
			list.AddItem(label, "", 0, func() {
				a.applyThemeFromPicker(themeName)
			})
		}
	}
	reload("")

	input.SetChangedFunc(func(text string) { reload(text) })
	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.closeThemePicker()
			return nil
		case tcell.KeyDown, tcell.KeyUp:
			a.SetFocus(list)
			return nil
		case tcell.KeyEnter:
			if len(visible) > 0 {
				a.applyThemeFromPicker(visible[0])
			}
			return nil
		}
		return event
	})
	list.SetInputCapture(func(e *tcell.EventKey) *tcell.EventKey {
		if e.Key() == tcell.KeyUp && list.GetCurrentItem() == 0 {
			a.SetFocus(input)
			return nil
		}
		if e.Key() == tcell.KeyEscape {
			a.closeThemePicker()
			return nil
		}
		return e
	})

	container := a.newFrame(" 🎨 Theme Picker ")
	container.AddItem(input, 1, 0, true)
	container.AddItem(list, 0, 1, false)
	footer := tview.NewTextView().SetTextAlign(tview.AlignRight)
	footer.SetText(" Enter: apply | Esc: cancel ")
	footer.SetTextColor(a.colors().Inbox.SummaryColor.Color())
	footer.SetBackgroundColor(a.bgColor())
	container.AddItem(footer, 1, 0, false)

	a.Pages.RemovePage(pageThemes)
	a.Pages.AddPage(pageThemes, container, true, false)
	a.Pages.SwitchToPage(pageThemes)
	a.currentPage = pageThemes
	a.SetFocus(input)
}

// closeThemePicker returns to the dashboard
func (a *App) closeThemePicker() {
	a.Pages.RemovePage(pageThemes)
	a.showMain()
}

// applyThemeFromPicker loads the theme, restyles the UI and saves the choice
func (a *App) applyThemeFromPicker(name string) {
	theme, err := a.themeLoader().LoadTheme(name)
	if err != nil {
		a.logger.Warn("failed to load theme", zap.String("theme", name), zap.Error(err))
		a.closeThemePicker()
		go a.errorHandler.ShowError(a.ctx, fmt.Sprintf("Failed to load theme '%s'", name))
		return
	}

	a.Pages.RemovePage(pageThemes)
	a.applyTheme(theme)
	a.Config.Layout.CurrentTheme = name
	a.showMain()
	a.refresh()

	go a.saveThemeChoice(name)
	go a.errorHandler.ShowSuccess(a.ctx, "Applied theme: "+name)
}

// applyTheme rebuilds every widget with the new colors. Must run on the UI goroutine.
func (a *App) applyTheme(theme *config.ColorsConfig) {
	a.theme = theme

	a.Pages.RemovePage(pageMain)
	a.Pages.RemovePage(pageLogin)
	a.Pages.RemovePage(pageHelp)

	a.initComponents()
	a.errorHandler.mu.Lock()
	a.errorHandler.statusView = a.status
	a.errorHandler.flashView = a.flash
	a.errorHandler.mu.Unlock()

	a.initViews()
	a.updateFocusIndicators()
}

func (a *App) saveThemeChoice(name string) {
	if a.cfgManager == nil {
		return
	}
	cfg := a.cfgManager.GetConfig()
	cfg.Layout.CurrentTheme = name
	if err := a.cfgManager.UpdateConfig(cfg); err != nil {
		a.logger.Warn("failed to update theme in config", zap.Error(err))
		return
	}
	if path := a.cfgManager.ConfigPath(); path != "" {
		if err := a.cfgManager.SaveToFile(path); err != nil {
			a.logger.Warn("failed to save config", zap.String("path", path), zap.Error(err))
		}
	}
}
