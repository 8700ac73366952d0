package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/shoal/internal/classify"
)

// Color tokens for the board. Node states get fixed terminal colors;
// the configurable DOT palette uses Graphviz names, which terminals
// cannot render, so the board carries its own.
var (
	nextColor     = lipgloss.Color("#73F59F")
	waitingColor  = lipgloss.Color("#54A0FF")
	pendingColor  = lipgloss.Color("#CCCCCC")
	completeColor = lipgloss.Color("#777777")

	borderDefaultColor = lipgloss.Color("#444444")
	textMutedColor     = lipgloss.Color("#666666")
	errorFgColor       = lipgloss.Color("#FFFFFF")
	errorBgColor       = lipgloss.Color("#CC3333")
)

var (
	selectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")).Bold(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(textMutedColor).Italic(true).Padding(1, 2)
	bannerStyle    = lipgloss.NewStyle().Foreground(errorFgColor).Background(errorBgColor).Bold(true).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(textMutedColor)
	detailKeyStyle = lipgloss.NewStyle().Foreground(pendingColor).Bold(true)
)

// stateColor maps a display state to its board color.
func stateColor(s classify.State) lipgloss.Color {
	switch s {
	case classify.StateNext:
		return nextColor
	case classify.StateWaiting:
		return waitingColor
	case classify.StateComplete:
		return completeColor
	default:
		return pendingColor
	}
}

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// renderTitleBorder renders content with a title embedded in the top
// border, lazygit style: ╭─ Title ─────╮
func renderTitleBorder(content, title string, width, height int, focused bool, titleColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = borderDefaultColor
	if focused {
		borderColor = titleColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}

	topBorder := buildTopBorder(title, innerWidth, borderStyle, titleStyle)
	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	contentHeight := height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight)
	constrained := contentStyle.Render(content)

	contentLines := strings.Split(constrained, "\n")
	paddedLines := make([]string, contentHeight)

	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}

		// Pad to innerWidth so the right border aligns
		lineWidth := lipgloss.Width(line)
		if lineWidth < innerWidth {
			line = line + strings.Repeat(" ", innerWidth-lineWidth)
		}

		paddedLines[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	result.WriteString(strings.Join(paddedLines, "\n"))
	result.WriteString("\n")
	result.WriteString(bottomBorder)

	return result.String()
}

// buildTopBorder creates the top border with embedded title.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}

	// Too narrow for "─ Title ─", or nothing to show
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	displayTitle := ansi.Truncate(title, innerWidth-4, "...")

	// Inner layout: "─ " + title + " " + trailing dashes
	remainingWidth := innerWidth - 3 - lipgloss.Width(displayTitle)
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remainingWidth)+borderTopRight)
}
