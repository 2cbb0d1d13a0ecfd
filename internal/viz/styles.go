package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/phasependulum/internal/controls"
	"github.com/san-kum/phasependulum/internal/field"
)

// styles are derived from the active theme on every render.
type styles struct {
	title    lipgloss.Style
	pane     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	dragging lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted),
		label: lipgloss.NewStyle().Foreground(t.Muted),
		value: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		dragging: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		errText:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// SliderBar renders a slider track filled to frac.
func SliderBar(frac float64, width int) string {
	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderSliders lays out one line per slider, marking the selected one.
func renderSliders(p *controls.Panel, st styles, width int) string {
	var b strings.Builder
	for i, s := range p.Sliders {
		marker := "  "
		label := st.label
		if i == p.Cursor() {
			marker = "▸ "
			label = st.selected
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(trimAlpha(p.Color))).Render(SliderBar(s.DisplayFraction(), width))
		fmt.Fprintf(&b, "%s%s\n  %s %s\n", marker, label.Render(s.Label), bar, st.value.Render(fmt.Sprintf("%.4g", s.Value)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// MagnitudeLegend renders the field colour ramp from zero up to maxMag.
func MagnitudeLegend(maxMag float64, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		mag := maxMag * float64(i) / float64(width)
		color := lipgloss.Color(trimAlpha(field.Color(mag)))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
	}
	return b.String()
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	// Keep the newest samples when there are more than fit.
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteRune(chars[idx])
	}
	return result.String()
}
