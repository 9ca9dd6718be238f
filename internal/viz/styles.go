package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Header    lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Graph     lipgloss.Style
	Head      lipgloss.Style
	KeyHint   lipgloss.Style
	Error     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			MarginBottom(1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		Label: lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value: lipgloss.NewStyle().Foreground(t.Text),
		Running: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		Paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		Recording: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error).
			Blink(true),
		Graph:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		Head:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
	}
}

// GradientText colors each rune of text on a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	c1, err1 := colorful.Hex(string(start))
	c2, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(c1.BlendLab(c2, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders done/total as a fixed width bar.
func ProgressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
