package termutil

import "github.com/charmbracelet/lipgloss"

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Pass renders s as a successful result
func Pass(s string) string { return passStyle.Render(s) }

// Fail renders s as a failed result
func Fail(s string) string { return failStyle.Render(s) }

// Warn renders s as a warning
func Warn(s string) string { return warnStyle.Render(s) }

// Label renders s as a de-emphasised field label
func Label(s string) string { return labelStyle.Render(s) }
