package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
)

const badgeWidth = 9

// renderMain renders the dashboard: status bar, view bar, list, optional
// log pane and footer.
func (m Model) renderMain() string {
	lines := []string{
		m.renderHeader(),
		m.renderViewBar(),
		m.renderColumnHeader(),
	}
	lines = append(lines, m.renderRows()...)
	if m.showLogs {
		lines = append(lines, m.renderLogPane()...)
	}
	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}

// renderHeader shows the namespace, list counters and last update time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	index := 0
	if len(m.filtered) > 0 {
		index = m.selected + 1
	}
	visible := clamp(len(m.filtered)-m.offset, 0, m.listRows())

	counter := func(label string, n int) string {
		return bg.Render(label, styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", n), styles.Text)
	}

	parts := []string{
		bg.Render("tensu", styles.Logo),
		bg.Render("ns", styles.MutedText) + bg.Space() + bg.Render(m.namespace, styles.AccentText),
		counter(ternary(compact, "#", "Item"), index),
		counter(ternary(compact, "V", "Viewable"), visible),
		counter(ternary(compact, "T", "Total"), len(m.snapshot.Items)),
		counter(ternary(compact, "F", "Filtered"), len(m.filtered)),
	}
	left := bg.Join(parts, "  ")

	updated := "never"
	if !m.snapshot.LastUpdated.IsZero() {
		updated = m.snapshot.LastUpdated.Local().Format("15:04:05")
	}
	right := bg.Render("Updated", styles.MutedText) + bg.Space() + bg.Render(updated, styles.Text)
	if m.snapshot.IsOffline() {
		right = bg.Render("OFFLINE", styles.DangerText) + bg.Spaces(2) + right
	}

	return styles.Header.Width(m.width).Render(bg.Split(left, right, m.width-2))
}

// renderViewBar shows the view tabs and the active filters.
func (m Model) renderViewBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)

	tabs := make([]string, 0, len(state.Views))
	for i, v := range state.Views {
		label := fmt.Sprintf(" %d %s ", i+1, v.Title())
		if v == m.view {
			tabs = append(tabs, active.Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	left := bg.Join(tabs, " ")

	right := ""
	if summary := m.filterSummary(); summary != "" {
		style := styles.InfoText
		if m.filterErr != nil {
			style = styles.DangerText
		}
		right = bg.Render(truncate(summary, maxInt(m.width/2, 10)), style)
	}
	return bg.FillLine(bg.Split(left, right, m.width), m.width)
}

func (m Model) filterSummary() string {
	var parts []string
	for _, slot := range []promptKind{promptFilterFirst, promptFilterSecond, promptFilterThird} {
		if v := *m.filterField(slot); v != "" {
			parts = append(parts, m.filterLabel(slot)+"="+v)
		}
	}
	return strings.Join(parts, "  ")
}

type eventColumns struct {
	entity, check, age, output int
}

func (m Model) eventLayout() eventColumns {
	avail := m.width - badgeWidth - 4
	cols := eventColumns{
		entity: clamp(avail*22/100, 10, 32),
		check:  clamp(avail*22/100, 10, 32),
	}
	if m.width >= LayoutWideWidth {
		cols.age = 6
	}
	cols.output = maxInt(avail-cols.entity-cols.check-cols.age-3, 0)
	return cols
}

type silenceColumns struct {
	name, creator, expires, reason int
}

func (m Model) silenceLayout() silenceColumns {
	avail := m.width - 4
	cols := silenceColumns{
		name:    clamp(avail*35/100, 12, 48),
		creator: clamp(avail*15/100, 8, 20),
		expires: 18,
	}
	cols.reason = maxInt(avail-cols.name-cols.creator-cols.expires-3, 0)
	return cols
}

func (m Model) renderColumnHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	var text string
	if m.view.IsEvents() {
		c := m.eventLayout()
		text = fit("STATUS", badgeWidth) + "   " + fit("ENTITY", c.entity) + " " + fit("CHECK", c.check) + " "
		if c.age > 0 {
			text += fit("AGE", c.age) + " "
		}
		text += fit("OUTPUT", c.output)
	} else {
		c := m.silenceLayout()
		text = "  " + fit("NAME", c.name) + " " + fit("CREATOR", c.creator) + " " + fit("EXPIRES", c.expires) + " " + fit("REASON", c.reason)
	}
	return NewBgStyle(m.theme.Background).FillLine(styles.FaintText.Bold(true).Render(text), m.width)
}

// renderRows renders exactly listRows lines so the footer stays put.
func (m Model) renderRows() []string {
	rows := m.listRows()
	bg := NewBgStyle(m.theme.Background)
	out := make([]string, 0, rows)

	if len(m.filtered) == 0 {
		styles := m.theme.Styles().WithBackground(m.theme.Background)
		msg := "No items"
		switch {
		case m.snapshot.View != m.view || m.snapshot.Namespace != m.namespace:
			msg = "Loading " + m.view.Title() + "..."
		case len(m.snapshot.Items) > 0:
			msg = "No items match the filters"
		}
		out = append(out, bg.FillLine(bg.Spaces(2)+styles.MutedText.Render(msg), m.width))
	}

	now := m.now()
	for i := m.offset; i < len(m.filtered) && len(out) < rows; i++ {
		item := m.filtered[i]
		if m.view.IsEvents() {
			out = append(out, m.renderEventRow(item, i == m.selected, now))
		} else {
			out = append(out, m.renderSilenceRow(item, i == m.selected, now))
		}
	}
	for len(out) < rows {
		out = append(out, bg.FillLine("", m.width))
	}
	return out
}

func (m Model) renderEventRow(item sensu.Item, selected bool, now time.Time) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	c := m.eventLayout()

	label := item.CheckState()
	badge := lipgloss.PlaceHorizontal(badgeWidth, lipgloss.Center, strings.ToUpper(label))
	mark := "  "
	if item.IsSilenced() {
		mark = "S "
	}

	cells := fit(item.EntityName(), c.entity) + " " + fit(item.CheckName(), c.check) + " "
	if c.age > 0 {
		cells += fit(age(item.Timestamp(), now), c.age) + " "
	}
	cells += fit(firstLine(item.CheckOutput()), c.output)

	if selected {
		return m.theme.Styles().Selected.Width(m.width).Render(fit(badge+" "+mark+cells, m.width))
	}
	badgeStyle := styles.StatusStyle(label)
	if item.IsSilenced() {
		badgeStyle = styles.StatusStyle("silenced")
	}
	bg := NewBgStyle(m.theme.Background)
	row := badgeStyle.Render(badge) + bg.Space() + bg.Render(mark, styles.FaintText) + bg.Render(cells, styles.Text)
	return bg.FillLine(row, m.width)
}

func (m Model) renderSilenceRow(item sensu.Item, selected bool, now time.Time) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	c := m.silenceLayout()

	name := fit(item.Name(), c.name)
	creator := fit(item.Creator(), c.creator)
	expires := fit(expireText(item, now), c.expires)
	reason := fit(item.Reason(), c.reason)

	if selected {
		return m.theme.Styles().Selected.Width(m.width).Render(fit("  "+name+" "+creator+" "+expires+" "+reason, m.width))
	}
	bg := NewBgStyle(m.theme.Background)
	row := bg.Spaces(2) +
		bg.Render(name, styles.Text) + bg.Space() +
		bg.Render(creator, styles.AccentText) + bg.Space() +
		bg.Render(expires, styles.MutedText) + bg.Space() +
		bg.Render(reason, styles.MutedText)
	return bg.FillLine(row, m.width)
}

func (m Model) renderLogPane() []string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	out := []string{bg.FillLine(bg.Render(" Log  "+truncate(m.logPath, m.width-8), styles.MutedText), m.width)}

	lines := m.logLines
	if keep := logPaneRows - 1; len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for _, line := range lines {
		out = append(out, lipgloss.NewStyle().MaxWidth(m.width).Render(line))
	}
	for len(out) < logPaneRows {
		out = append(out, "")
	}
	return out
}

// renderFooter shows the status message on the left and the fetch
// progress on the right.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var left string
	switch {
	case m.statusIsError:
		left = bg.Render(truncate(m.status, m.width/2), styles.DangerText)
	case m.snapshot.LastError != nil:
		left = bg.Render(truncate(m.snapshot.ErrorText(), m.width/2), styles.DangerText)
	case m.filterErr != nil:
		left = bg.Render(truncate(m.filterErr.Error(), m.width/2), styles.WarningText)
	case m.status != "":
		left = bg.Render(truncate(m.status, m.width/2), styles.Text)
	default:
		left = m.help.View(m.keys)
	}
	right := bg.Render(m.snapshot.FetchStatus, styles.InfoText)

	return styles.Footer.Width(m.width).Render(bg.Split(left, right, m.width-2))
}
