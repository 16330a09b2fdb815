package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# redline

Review model-proposed edits to the captured text.

## Instructions
- ` + "`ctrl+s`" + ` send the typed instructions (first round or follow-up)
- ` + "`alt+1..3`" + ` fire a configured quick action

## Review
- ` + "`j`/`k`" + ` move between changes, ` + "`space`" + ` accept/reject the change
- ` + "`a`" + ` accept, ` + "`x`" + ` reject, ` + "`e`" + ` edit inserted text
- ` + "`[`/`]`" + ` browse versions (older versions are read-only)
- ` + "`f`" + ` type follow-up instructions
- ` + "`ctrl+a`" + ` apply the accepted changes and exit

## Leaving
- ` + "`esc`/`q`" + ` close without applying, ` + "`ctrl+c`" + ` force quit
`

func (m *model) View() string {
	var b strings.Builder

	title := "redline • " + string(m.session.Selection.Source)
	if m.session.Selection.Source == sourceFile {
		title += " " + m.session.Selection.Path
	}
	b.WriteString(m.styles.topBar.Width(maxInt(0, m.width)).Render(title))
	b.WriteRune('\n')

	b.WriteString(m.renderPromptPanel())
	b.WriteRune('\n')

	if !m.session.History.Empty() {
		b.WriteString(m.renderDiffPanel())
		b.WriteRune('\n')
	}

	if m.phase == phaseLoading {
		b.WriteString(m.spinner.View() + " Processing with AI...")
		b.WriteRune('\n')
	}

	b.WriteString(m.renderStatus())
	b.WriteRune('\n')

	if hints := m.renderQuickActionHints(); hints != "" {
		b.WriteString(hints)
		b.WriteRune('\n')
	}
	b.WriteString(m.help.View(m.keys))

	if m.showHelp {
		overlay := m.styles.cmdOverlay.Render(renderMarkdown(helpMarkdown))
		return m.styles.app.Render(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay))
	}
	if m.phase == phaseEditInsert {
		var content strings.Builder
		content.WriteString(m.styles.cmdPrompt.Render("Edit inserted text"))
		content.WriteRune('\n')
		content.WriteString(m.insert.View())
		content.WriteRune('\n')
		content.WriteString(m.styles.cmdHint.Render("enter save • esc cancel"))
		overlay := m.styles.cmdOverlay.Render(content.String())
		b.WriteRune('\n')
		b.WriteString(lipgloss.Place(m.width, m.height/3, lipgloss.Center, lipgloss.Center, overlay))
	}

	return m.styles.app.Render(b.String())
}

func (m *model) renderPromptPanel() string {
	label := m.styles.label.Render("Your instructions")
	panel := m.styles.panel
	if m.phase == phasePrompt {
		panel = m.styles.panelFocused
	}
	return panel.Width(maxInt(24, m.width-2)).Render(label + "\n" + m.prompt.View())
}

func (m *model) renderDiffPanel() string {
	current := m.session.History.CurrentVersion()
	if current == nil {
		return ""
	}
	units := renderUnits(current.Segments)
	content := m.renderDiffContent(current.Segments, units)
	width := maxInt(24, m.width-6)
	m.diffView.SetContent(lipgloss.NewStyle().Width(width).Render(content))

	var b strings.Builder
	b.WriteString(m.styles.label.Render("Proposed changes"))
	b.WriteRune('\n')
	b.WriteString(m.diffView.View())
	if nav := m.renderVersionNav(); nav != "" {
		b.WriteRune('\n')
		b.WriteString(nav)
	}
	panel := m.styles.panel
	if m.phase == phaseReview {
		panel = m.styles.panelFocused
	}
	return panel.Width(maxInt(24, m.width-2)).Render(b.String())
}

// renderDiffContent lays the segment sequence out as flowing text, one
// reviewable unit at a time. Changed units carry a verdict mark and the unit
// under the cursor a pointer.
func (m *model) renderDiffContent(segments []segment, units []renderUnit) string {
	var b strings.Builder
	for i, unit := range units {
		if unit.Interactive && i == m.unitCursor {
			b.WriteString(m.styles.unitCursor.Render("▸"))
		}
		switch {
		case unit.Kind == unitPair:
			b.WriteString(m.renderDelete(segments[unit.DeleteIndex]))
			b.WriteString(m.renderInsert(segments[unit.InsertIndex]))
		case unit.EqualIndex >= 0:
			b.WriteString(m.styles.diffEqual.Render(segments[unit.EqualIndex].Text))
		case unit.DeleteIndex >= 0:
			b.WriteString(m.renderDelete(segments[unit.DeleteIndex]))
		case unit.InsertIndex >= 0:
			b.WriteString(m.renderInsert(segments[unit.InsertIndex]))
		}
		if unit.Interactive {
			if unit.Accepted {
				b.WriteString(m.styles.verdictAccepted.Render("✓"))
			} else {
				b.WriteString(m.styles.verdictRejected.Render("✗"))
			}
		}
	}
	return b.String()
}

func (m *model) renderDelete(seg segment) string {
	if seg.Accepted {
		return m.styles.diffDelete.Render(seg.Text)
	}
	// A rejected deletion survives into the output.
	return m.styles.diffDeleteKept.Render(seg.Text)
}

func (m *model) renderInsert(seg segment) string {
	if seg.Accepted {
		return m.styles.diffInsert.Render(seg.Text)
	}
	return m.styles.diffInsertRejected.Render(seg.Text)
}

func (m *model) renderVersionNav() string {
	history := m.session.History
	if history.Len() <= 1 {
		return ""
	}
	nav := fmt.Sprintf("Version %d of %d", history.Current+1, history.Len())
	if !history.OnLatest() {
		nav += " (read-only)"
	}
	return m.styles.versionNav.Render(nav + "  [ prev • ] next")
}

func (m *model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusKind == statusError {
		return m.styles.statusError.Render(m.status)
	}
	return m.styles.statusInfo.Render(m.status)
}

func (m *model) renderQuickActionHints() string {
	if len(m.quickActions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.quickActions))
	for _, action := range m.quickActions {
		parts = append(parts, m.styles.quickAction.Render(fmt.Sprintf("alt+%d %s", action.Slot, action.Label)))
	}
	return strings.Join(parts, m.styles.helpHint.Render(" • "))
}
