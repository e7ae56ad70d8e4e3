package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tensu/internal/logtail"
	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
)

// Backend is the part of the Sensu API the dashboard acts on directly. The
// list itself comes from the store.
type Backend interface {
	FetchNamespaces(ctx context.Context) ([]string, error)
	FetchEvent(ctx context.Context, entity, check string) (sensu.Item, error)
	ExecuteCheck(ctx context.Context, entity, check string) error
	ResolveEvent(ctx context.Context, event sensu.Item, now time.Time) error
	CreateSilence(ctx context.Context, req sensu.SilenceRequest, now time.Time) error
	DeleteSilence(ctx context.Context, name string) error
}

// Poller receives what the dashboard wants listed.
type Poller interface {
	Submit(req state.Request)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionResultMsg struct {
	text    string
	err     error
	refresh bool
}

type namespacesMsg struct {
	names []string
	err   error
}

type eventMsg struct {
	item sensu.Item
	err  error
}

type logLinesMsg []string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func readLogsCmd(path string, lines int) tea.Cmd {
	return func() tea.Msg {
		raw, err := logtail.Read(path, lines)
		if err != nil {
			return logLinesMsg{err.Error()}
		}
		return logLinesMsg(logtail.FormatLines(raw, true))
	}
}

// apiCmd runs fn against the backend with a timeout and reports done on
// success. Successful actions force a render of the list.
func (m Model) apiCmd(done string, fn func(ctx context.Context, b Backend) error) tea.Cmd {
	parent, backend := m.ctx, m.backend
	return func() tea.Msg {
		if backend == nil {
			return actionResultMsg{err: fmt.Errorf("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		if err := fn(ctx, backend); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{text: done, refresh: true}
	}
}

func (m Model) rerunCmd(event sensu.Item) tea.Cmd {
	entity, check := event.EntityName(), event.CheckName()
	return m.apiCmd(fmt.Sprintf("Re-run requested for %s on %s", check, entity), func(ctx context.Context, b Backend) error {
		if err := b.ExecuteCheck(ctx, entity, check); err != nil {
			return fmt.Errorf("re-run %s: %w", check, err)
		}
		return nil
	})
}

func (m Model) resolveCmd(event sensu.Item) tea.Cmd {
	now := m.now()
	return m.apiCmd(fmt.Sprintf("Resolved %s/%s", event.EntityName(), event.CheckName()), func(ctx context.Context, b Backend) error {
		if err := b.ResolveEvent(ctx, event, now); err != nil {
			return fmt.Errorf("resolve event: %w", err)
		}
		return nil
	})
}

func (m Model) silenceCmd(entry, reason string) tea.Cmd {
	req := sensu.SilenceRequest{Entry: entry, Creator: m.username, Reason: reason}
	now := m.now()
	return m.apiCmd("Silenced "+entry, func(ctx context.Context, b Backend) error {
		if err := b.CreateSilence(ctx, req, now); err != nil {
			return fmt.Errorf("silence %s: %w", entry, err)
		}
		return nil
	})
}

func (m Model) deleteSilencesCmd(names []string) tea.Cmd {
	done := "Cleared " + strings.Join(names, ", ")
	return m.apiCmd(done, func(ctx context.Context, b Backend) error {
		for _, name := range names {
			if err := b.DeleteSilence(ctx, name); err != nil {
				return fmt.Errorf("delete silence %s: %w", name, err)
			}
		}
		return nil
	})
}

func (m Model) fetchNamespacesCmd() tea.Cmd {
	parent, backend := m.ctx, m.backend
	return func() tea.Msg {
		if backend == nil {
			return namespacesMsg{err: fmt.Errorf("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		names, err := backend.FetchNamespaces(ctx)
		if err != nil {
			return namespacesMsg{err: fmt.Errorf("list namespaces: %w", err)}
		}
		return namespacesMsg{names: names}
	}
}

func (m Model) fetchEventCmd(event sensu.Item) tea.Cmd {
	parent, backend := m.ctx, m.backend
	entity, check := event.EntityName(), event.CheckName()
	return func() tea.Msg {
		if backend == nil || entity == "" || check == "" {
			return nil
		}
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		item, err := backend.FetchEvent(ctx, entity, check)
		return eventMsg{item: item, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return actionResultMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return actionResultMsg{text: "Copied " + text}
	}
}

// nextNamespace returns the namespace after current in names, wrapping
// around. An unknown current selects the first name.
func nextNamespace(names []string, current string) string {
	if len(names) == 0 {
		return current
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
