package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"github.com/five82/tensu/internal/sensu"
)

// detailModal shows every field of one event or silence in a scrollable
// viewport.
type detailModal struct {
	title    string
	item     sensu.Item
	events   bool
	now      time.Time
	viewport viewport.Model
}

func newDetailModal(item sensu.Item, events bool, now time.Time, width, height int) *detailModal {
	d := &detailModal{item: item, events: events, now: now}
	d.viewport = viewport.New(detailWidth(width), detailHeight(height))
	d.refresh()
	return d
}

func detailWidth(width int) int   { return maxInt(width-8, 20) }
func detailHeight(height int) int { return maxInt(height-6, 3) }

// matches reports whether item is the same record the modal shows.
func (d *detailModal) matches(item sensu.Item) bool {
	if d.events {
		return item.EntityName() == d.item.EntityName() && item.CheckName() == d.item.CheckName()
	}
	return item.Name() == d.item.Name()
}

func (d *detailModal) setItem(item sensu.Item) {
	d.item = item
	d.refresh()
}

func (d *detailModal) resize(width, height int) {
	d.viewport.Width = detailWidth(width)
	d.viewport.Height = detailHeight(height)
}

func (d *detailModal) refresh() {
	if d.events {
		d.title = d.item.EntityName() + " / " + d.item.CheckName()
	} else {
		d.title = d.item.Name()
	}
	d.viewport.SetContent(detailContent(d.item, d.events, d.now))
}

func (d *detailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(km, keys.Escape, keys.Detail, keys.Quit) {
			return d, nil, true
		}
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd, false
}

func (d *detailModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	title := styles.AccentText.Bold(true).Render(truncate(d.title, d.viewport.Width))
	scroll := styles.FaintText.Render(fmt.Sprintf("%3.0f%%  esc close", d.viewport.ScrollPercent()*100))
	body := lipgloss.JoinVertical(lipgloss.Left, title, d.viewport.View(), scroll)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(0, 1).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func detailContent(item sensu.Item, events bool, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%-14s %s\n", label+":", value)
	}

	if events {
		field("Entity", item.EntityName())
		field("Check", item.CheckName())
		field("Status", fmt.Sprintf("%s (%d)", item.CheckState(), item.CheckStatus()))
		field("Silenced", yesNo(item.IsSilenced()))
		if by := item.SilencedBy(); len(by) > 0 {
			field("Silenced by", strings.Join(by, ", "))
		}
		field("Issued", timeText(item.Issued(), now))
		field("Last seen", timeText(item.Timestamp(), now))
		b.WriteString("\nOutput:\n")
		b.WriteString(strings.TrimRight(item.CheckOutput(), "\n"))
		b.WriteString("\n")
	} else {
		field("Name", item.Name())
		field("Subscription", item.SilenceSubscription())
		field("Check", item.String("*", "check"))
		field("Creator", item.Creator())
		field("Reason", item.Reason())
		field("Begin", timeText(item.Begin(), now))
		field("Expires", expireText(item, now))
	}

	raw, err := json.MarshalIndent(item, "", "  ")
	if err == nil {
		b.WriteString("\nRaw:\n")
		b.Write(raw)
		b.WriteString("\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func timeText(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05") + " (" + age(t, now) + " ago)"
}

// expireText describes when a silence lapses.
func expireText(item sensu.Item, now time.Time) string {
	var out string
	switch secs := item.ExpireSeconds(); {
	case secs < 0:
		out = "never"
	case !item.ExpireAt().IsZero():
		out = "in " + humanizeDuration(item.ExpireAt().Sub(now))
	default:
		out = "in " + humanizeDuration(time.Duration(secs)*time.Second)
	}
	if item.ExpireOnResolve() {
		out += " or on resolve"
	}
	return out
}
