package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type overlayKind int

const (
	overlayDetail overlayKind = iota
	overlayHelp
	overlayChanges
	overlayConfirm
)

// overlay is one card on the overlay stack. release hands back the scroll
// lock taken when the card opened.
type overlay struct {
	kind      overlayKind
	title     string
	body      string
	onConfirm func() tea.Cmd
	release   func()
}

// overlayAt composites card on top of base with its top-left corner at
// column x, row y. Both are line grids; ANSI sequences are preserved.
func overlayAt(base, card string, x, y, width, height int) string {
	baseLines := splitLines(base)
	cardLines := splitLines(card)
	cardWidth := maxLineWidth(cardLines)
	for i, line := range cardLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		line = padRight(line, cardWidth)
		right := ansi.TruncateLeft(target, x+cardWidth, "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
