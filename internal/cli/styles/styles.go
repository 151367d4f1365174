package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/kanrank/internal/models"
)

const (
	accentColor = "#7E9CD8"
	titleColor  = "#DCD7BA"
	subtleColor = "#727169"
	normalColor = "#C8C093"
	successFg   = "#16161D"
	successBg   = "#98BB6C"
	errorFg     = "#16161D"
	errorBg     = "#E46876"
	warningFg   = "#16161D"
	warningBg   = "#E6C384"
)

var (
	// Card styles
	CardWidth = 80
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentColor)).
			Padding(1, 2).
			Width(CardWidth)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(titleColor))
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtleColor))
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(accentColor))
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(normalColor))

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(successFg)).
			Background(lipgloss.Color(successBg)).
			Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(errorFg)).
			Background(lipgloss.Color(errorBg)).
			Padding(0, 1)
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(warningFg)).
			Background(lipgloss.Color(warningBg)).
			Padding(0, 1)
)

// RenderColumnHeader renders "Name (N issues)"
func RenderColumnHeader(column *models.Column) string {
	return TitleStyle.Render(column.Name) + " " +
		SubtitleStyle.Render(fmt.Sprintf("(#%d, %d issues)", column.ID, column.IssueCount))
}

// RenderIssueLine renders one issue of a column listing.
// Format: "1. #12 Title  a000000000"
func RenderIssueLine(position int, issue *models.Issue) string {
	return fmt.Sprintf("%s %s %s  %s",
		LabelStyle.Render(fmt.Sprintf("%d.", position)),
		SubtitleStyle.Render(fmt.Sprintf("#%d", issue.ID)),
		ValueStyle.Render(issue.Title),
		SubtitleStyle.Render(issue.Rank.String()))
}

// RenderPlacement renders where an issue ended up
func RenderPlacement(placement *models.Placement) string {
	status := SuccessStyle.Render("PLACED")
	switch {
	case !placement.Changed:
		status = SubtitleStyle.Render("UNCHANGED")
	case placement.Rebalanced:
		status = WarningStyle.Render("REBALANCED")
	}
	return fmt.Sprintf("%s issue #%d in column #%d at rank %s",
		status, placement.IssueID, placement.ColumnID, placement.Rank)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
