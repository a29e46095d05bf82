package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle returns the lipgloss style for an event category badge.
func CategoryStyle(c domain.EventCategory) lipgloss.Style {
	switch c {
	case domain.CategoryBudget, domain.CategoryRevenue, domain.CategoryExpenditure:
		return StyleGreen
	case domain.CategoryContract, domain.CategoryGoods, domain.CategorySharedAsset:
		return StyleBlue
	case domain.CategoryPayroll, domain.CategoryPersonnel:
		return StyleYellow
	case domain.CategoryComplaints:
		return StyleRed
	case domain.CategoryMeetings, domain.CategorySchoolCouncil:
		return StylePurple
	default:
		return StyleDim
	}
}

// CategoryBadge returns a colored "[분류]" badge for the category.
func CategoryBadge(c domain.EventCategory) string {
	return CategoryStyle(c).Render("[" + string(c) + "]")
}

// SourceBadge marks AI-registered entries; manual entries carry no badge.
func SourceBadge(s domain.EventSource) string {
	if s == domain.SourceAI {
		return StylePurple.Render("AI")
	}
	return ""
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(text), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
