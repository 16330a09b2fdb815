package main

import "github.com/charmbracelet/lipgloss"

var (
	insertColor = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	deleteColor = lipgloss.AdaptiveColor{Light: "124", Dark: "203"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "243", Dark: "246"}
	errorColor  = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	accentColor = lipgloss.AdaptiveColor{Light: "26", Dark: "75"}
)

type styles struct {
	app, topBar                    lipgloss.Style
	panel, panelFocused            lipgloss.Style
	label                          lipgloss.Style
	statusInfo, statusError        lipgloss.Style
	diffEqual                      lipgloss.Style
	diffDelete, diffDeleteKept     lipgloss.Style
	diffInsert, diffInsertRejected lipgloss.Style
	unitCursor                     lipgloss.Style
	verdictAccepted                lipgloss.Style
	verdictRejected                lipgloss.Style
	versionNav                     lipgloss.Style
	quickAction                    lipgloss.Style
	cmdOverlay, cmdPrompt, cmdHint lipgloss.Style
	helpHint                       lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Bold(true).Padding(0, 1),
		panel:        base.Copy().BorderStyle(panelBorder).Padding(0, 1),
		panelFocused: base.Copy().BorderStyle(focusedBorder).Padding(0, 1),
		label:        base.Copy().Bold(true),

		statusInfo:  base.Copy().Foreground(mutedColor),
		statusError: base.Copy().Foreground(errorColor).Bold(true),

		diffEqual:          base,
		diffDelete:         base.Copy().Foreground(deleteColor).Strikethrough(true),
		diffDeleteKept:     base.Copy().Foreground(deleteColor),
		diffInsert:         base.Copy().Foreground(insertColor),
		diffInsertRejected: base.Copy().Foreground(mutedColor).Strikethrough(true),

		unitCursor:      base.Copy().Reverse(true),
		verdictAccepted: base.Copy().Foreground(insertColor).Bold(true),
		verdictRejected: base.Copy().Foreground(deleteColor).Bold(true),

		versionNav:  base.Copy().Foreground(accentColor),
		quickAction: base.Copy().Foreground(accentColor).Bold(true),

		cmdOverlay: base.Copy().Border(lipgloss.RoundedBorder()).Padding(1, 2),
		cmdPrompt:  base.Copy().Bold(true),
		cmdHint:    base.Copy().Faint(true),
		helpHint:   base.Copy().Faint(true),
	}
}
