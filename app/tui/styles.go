package tui

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"}
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ChipActiveBgColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonDangerColor  = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#E74C3C"}

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(TextMutedColor)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Underline(true).Foreground(TextPrimaryColor)
	labelStyle     = lipgloss.NewStyle().Width(12).Foreground(TextMutedColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	selectionStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusColor)
	successStyle   = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	errorStyle     = lipgloss.NewStyle().Foreground(StatusErrorColor)

	chipStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(TextMutedColor)
	activeChipStyle  = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ChipActiveBgColor)
	focusedChipStyle = chipStyle.Underline(true)

	buttonStyle        = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ChipActiveBgColor)
	buttonFocusedStyle = buttonStyle.Background(BorderFocusColor).Underline(true)
	dangerStyle        = lipgloss.NewStyle().Bold(true).Foreground(ButtonDangerColor)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)
)

func renderStatus(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}
