package config

import (
	"fmt"

	"github.com/derailed/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// Colors tracks multiple colors
type Colors []Color

// Colors converts series string colors to colors
func (c Colors) Colors() []tcell.Color {
	cc := make([]tcell.Color, 0, len(c))
	for _, color := range c {
		cc = append(cc, color.Color())
	}
	return cc
}

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as string
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// FrameColors defines colors for UI frame elements
type FrameColors struct {
	Border struct {
		FgColor    Color `yaml:"fgColor"`
		FocusColor Color `yaml:"focusColor"`
	} `yaml:"border"`
	Title struct {
		FgColor        Color `yaml:"fgColor"`
		HighlightColor Color `yaml:"highlightColor"`
	} `yaml:"title"`
}

// BodyColors defines colors for body elements
type BodyColors struct {
	FgColor     Color `yaml:"fgColor"`
	BgColor     Color `yaml:"bgColor"`
	AccentColor Color `yaml:"accentColor"`
}

// InboxColors defines colors for the email cards
type InboxColors struct {
	NumberColor     Color `yaml:"numberColor"`
	SubjectColor    Color `yaml:"subjectColor"`
	FromColor       Color `yaml:"fromColor"`
	SummaryColor    Color `yaml:"summaryColor"`
	ReplyReadyColor Color `yaml:"replyReadyColor"`
	SelectedBgColor Color `yaml:"selectedBgColor"`
}

// ChatColors defines colors for the transcript and input
type ChatColors struct {
	UserColor      Color `yaml:"userColor"`
	AssistantColor Color `yaml:"assistantColor"`
	InputFgColor   Color `yaml:"inputFgColor"`
	InputBgColor   Color `yaml:"inputBgColor"`
	ConnectedColor Color `yaml:"connectedColor"`
}

// StatusColors defines colors for status bar messages
type StatusColors struct {
	InfoColor    Color `yaml:"infoColor"`
	WarningColor Color `yaml:"warningColor"`
	ErrorColor   Color `yaml:"errorColor"`
	SuccessColor Color `yaml:"successColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body   BodyColors   `yaml:"body"`
	Frame  FrameColors  `yaml:"frame"`
	Inbox  InboxColors  `yaml:"inbox"`
	Chat   ChatColors   `yaml:"chat"`
	Status StatusColors `yaml:"status"`
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorsConfig {
	c := &ColorsConfig{
		Body: BodyColors{
			FgColor:     NewColor("#e2e8f0"),
			BgColor:     NewColor("#0f172a"),
			AccentColor: NewColor("#38bdf8"),
		},
		Inbox: InboxColors{
			NumberColor:     NewColor("#94a3b8"),
			SubjectColor:    NewColor("#f8fafc"),
			FromColor:       NewColor("#cbd5e1"),
			SummaryColor:    NewColor("#94a3b8"),
			ReplyReadyColor: NewColor("#34d399"),
			SelectedBgColor: NewColor("#1e293b"),
		},
		Chat: ChatColors{
			UserColor:      NewColor("#38bdf8"),
			AssistantColor: NewColor("#e2e8f0"),
			InputFgColor:   NewColor("#f8fafc"),
			InputBgColor:   NewColor("#1e293b"),
			ConnectedColor: NewColor("#34d399"),
		},
		Status: StatusColors{
			InfoColor:    NewColor("#38bdf8"),
			WarningColor: NewColor("#fbbf24"),
			ErrorColor:   NewColor("#f87171"),
			SuccessColor: NewColor("#34d399"),
		},
	}
	c.Frame.Border.FgColor = NewColor("#334155")
	c.Frame.Border.FocusColor = NewColor("#38bdf8")
	c.Frame.Title.FgColor = NewColor("#f8fafc")
	c.Frame.Title.HighlightColor = NewColor("#38bdf8")
	return c
}
