package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/service"
)

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

var (
	styleBrand     = lipgloss.NewStyle().Foreground(colorPink).Bold(true)
	styleSection   = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	styleCursor    = lipgloss.NewStyle().Foreground(colorBase).Background(colorLavender)
	styleDim       = lipgloss.NewStyle().Foreground(colorOverlay0)
	styleDone      = lipgloss.NewStyle().Foreground(colorGreen)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleInsert    = lipgloss.NewStyle().Foreground(colorGreen)
	styleDelete    = lipgloss.NewStyle().Foreground(colorRed).Strikethrough(true)
	styleCardTitle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

var styleCard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorSurface1).
	Foreground(colorText).
	Padding(1, 2)

// refreshContent rebuilds the selectable rows and the viewport text.
func (a *App) refreshContent() {
	var lines []string
	a.items = a.items[:0]
	add := func(kind itemKind, index int, text string) {
		a.items = append(a.items, item{kind: kind, index: index, line: len(lines)})
		prefix := "  "
		if len(a.items)-1 == a.cursor {
			text = styleCursor.Render(text)
			prefix = "> "
		}
		lines = append(lines, prefix+text)
	}
	section := func(title string, n int) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styleSection.Render(title))
		if n == 0 {
			lines = append(lines, styleDim.Render("  nothing here"))
		}
	}

	section("Meal plans", len(a.dash.Plans))
	for i, p := range a.dash.Plans {
		add(itemPlan, i, fmt.Sprintf("%s · %d kcal", p.Title, p.TotalCalories()))
	}
	section("Exercises", len(a.dash.Exercises))
	for i, e := range a.dash.Exercises {
		add(itemExercise, i, exerciseLine(e))
	}
	section("Recipes", len(a.dash.Recipes))
	for i, r := range a.dash.Recipes {
		add(itemRecipe, i, r.Name)
	}

	if a.ready {
		a.vp.SetContent(strings.Join(lines, "\n"))
	}
}

func exerciseLine(e repository.Exercise) string {
	box := "[ ]"
	if e.Completed {
		box = styleDone.Render("[x]")
	}
	s := fmt.Sprintf("%s %s %d×%d", box, e.Name, e.Sets, e.Reps)
	if e.WeightKg > 0 {
		s += fmt.Sprintf(" @ %gkg", e.WeightKg)
	}
	return s
}

func (a *App) View() string {
	if !a.ready {
		return "loading…"
	}
	header := styleBrand.Render("fitcoach") + styleDim.Render(" · "+a.day.Format(a.dateFormat))
	if s := a.sync.View(); s != "" {
		header += "  " + s
	}
	footer := styleDim.Render("? help · q quit")
	if a.status != "" {
		if a.statusErr {
			footer = styleError.Render(a.status)
		} else {
			footer = a.status
		}
	}
	base := strings.Join([]string{
		truncate(header, a.width),
		a.vp.View(),
		truncate(footer, a.width),
	}, "\n")

	for depth, o := range a.overlays {
		card := a.renderCard(o)
		lines := splitLines(card)
		x := (a.width-maxLineWidth(lines))/2 + depth*2
		y := (a.height-len(lines))/2 + depth
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		base = overlayAt(base, card, x, y, a.width, a.height)
	}
	return base
}

func (a *App) cardWidth() int {
	w := a.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

func (a *App) renderCard(o overlay) string {
	maxWidth := a.cardWidth()
	body := lipgloss.NewStyle().MaxWidth(maxWidth).Render(o.body)
	content := styleCardTitle.Render(truncate(o.title, maxWidth)) + "\n\n" + body
	if o.kind != overlayConfirm {
		content += "\n\n" + styleDim.Render("esc close")
	}
	return styleCard.Render(content)
}

// renderNotes renders a coach's markdown notes for the terminal.
func renderNotes(notes string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return notes
	}
	out, err := r.Render(notes)
	if err != nil {
		return notes
	}
	return strings.Trim(out, "\n")
}

func planDetail(p repository.MealPlan, width int) string {
	var b strings.Builder
	if p.Day != "" {
		fmt.Fprintf(&b, "Day: %s\n", p.Day)
	}
	if len(p.Meals) == 0 {
		b.WriteString("No meals yet.\n")
	}
	for _, m := range p.Meals {
		fmt.Fprintf(&b, "• %-20s %5d kcal  P %.0fg C %.0fg F %.0fg\n", m.Name, m.Calories, m.ProteinG, m.CarbsG, m.FatG)
	}
	fmt.Fprintf(&b, "Total: %d kcal", p.TotalCalories())
	if p.Notes != "" {
		b.WriteString("\n\n" + renderNotes(p.Notes, width))
	}
	return b.String()
}

func exerciseDetail(e repository.Exercise) string {
	status := "not done"
	if e.Completed {
		status = "done"
	}
	s := fmt.Sprintf("%d sets × %d reps", e.Sets, e.Reps)
	if e.WeightKg > 0 {
		s += fmt.Sprintf(" at %g kg", e.WeightKg)
	}
	return s + "\nStatus: " + status + "\n\nx toggles done · d removes"
}

func recipeDetail(r repository.Recipe) string {
	var b strings.Builder
	if r.Calories > 0 {
		fmt.Fprintf(&b, "%d kcal per serving\n\n", r.Calories)
	}
	for _, ing := range r.Ingredients {
		b.WriteString("• " + ing + "\n")
	}
	if r.Instructions != "" {
		b.WriteString("\n" + r.Instructions)
	}
	return strings.TrimRight(b.String(), "\n")
}

func changesBody(c service.PlanChanges) string {
	var b strings.Builder
	b.WriteString(c.Summary)
	for _, m := range c.MealsAdded {
		b.WriteString("\n" + styleInsert.Render("+ "+m))
	}
	for _, m := range c.MealsRemoved {
		b.WriteString("\n" + styleDelete.Render("- "+m))
	}
	if len(c.Notes) > 0 {
		b.WriteString("\n\nNotes: ")
		for _, ch := range c.Notes {
			switch ch.Op {
			case "insert":
				b.WriteString(styleInsert.Render(ch.Text))
			case "delete":
				b.WriteString(styleDelete.Render(ch.Text))
			default:
				b.WriteString(ch.Text)
			}
		}
	}
	return b.String()
}

func helpBody(k keyMap) string {
	var b strings.Builder
	for i, binding := range k.helpRows() {
		if i > 0 {
			b.WriteString("\n")
		}
		h := binding.Help()
		fmt.Fprintf(&b, "%-8s %s", h.Key, h.Desc)
	}
	return b.String()
}
