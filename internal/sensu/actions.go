package sensu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ResolvedOutput is written into the check output of manually resolved events.
const ResolvedOutput = "Resolved manually by tensu"

// ExecuteCheck requests an ad hoc run of check on a single entity.
func (c *Client) ExecuteCheck(ctx context.Context, entity, check string) error {
	if entity == "" || check == "" {
		return fmt.Errorf("entity and check required")
	}
	body := map[string]any{
		"check":         check,
		"subscriptions": []string{"entity:" + entity},
	}
	_, err := c.do(ctx, http.MethodPost, c.namespacedPath("checks/"+check+"/execute"), body, nil)
	return err
}

// ResolveEvent marks event as passing by writing it back with status 0.
func (c *Client) ResolveEvent(ctx context.Context, event Item, now time.Time) error {
	entity, check := event.EntityName(), event.CheckName()
	if entity == "" || check == "" {
		return fmt.Errorf("event has no entity or check name")
	}
	resolved := ResolvedEvent(event, now)
	_, err := c.do(ctx, http.MethodPut, c.namespacedPath("events/"+entity+"/"+check), resolved, nil)
	return err
}

// ResolvedEvent returns a copy of event rewritten as passing at now.
func ResolvedEvent(event Item, now time.Time) Item {
	resolved := event.Clone()
	if resolved == nil {
		resolved = Item{}
	}
	check, ok := asMap(resolved["check"])
	if !ok {
		check = map[string]any{}
		resolved["check"] = check
	}
	check["status"] = StatusPassing
	check["output"] = ResolvedOutput
	resolved["timestamp"] = now.Unix()
	return resolved
}

// SilenceRequest describes a silencing entry to create.
type SilenceRequest struct {
	// Entry is "subscription:check"; a check of "*" silences every check
	// for the subscription.
	Entry   string
	Creator string
	Reason  string
}

// SilenceBody builds the silenced resource body for req.
func SilenceBody(namespace string, req SilenceRequest, now time.Time) (Item, error) {
	entry := strings.TrimSpace(req.Entry)
	idx := strings.LastIndex(entry, ":")
	if idx <= 0 || idx == len(entry)-1 {
		return nil, fmt.Errorf("silence entry %q must be subscription:check", req.Entry)
	}
	subscription, check := entry[:idx], entry[idx+1:]
	body := Item{
		"metadata": map[string]any{
			"name":      entry,
			"namespace": namespace,
		},
		"expire":            -1,
		"expire_on_resolve": false,
		"creator":           req.Creator,
		"reason":            req.Reason,
		"subscription":      subscription,
		"begin":             now.Unix(),
	}
	if check != "*" {
		body["check"] = check
	}
	return body, nil
}

// CreateSilence creates a silencing entry.
func (c *Client) CreateSilence(ctx context.Context, req SilenceRequest, now time.Time) error {
	body, err := SilenceBody(c.namespace, req, now)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, c.namespacedPath("silenced"), body, nil)
	return err
}

// DeleteSilence removes the silencing entry called name.
func (c *Client) DeleteSilence(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("silence name required")
	}
	_, err := c.do(ctx, http.MethodDelete, c.namespacedPath("silenced/"+name), nil, nil)
	return err
}
