package state

import (
	"fmt"
	"strings"

	"github.com/five82/tensu/internal/fetch"
)

// View selects which collection the dashboard lists.
type View int

const (
	ViewNotPassing View = iota
	ViewAll
	ViewSilenced
)

// Views lists every view in key order (1, 2, 3).
var Views = []View{ViewNotPassing, ViewAll, ViewSilenced}

const notPassingSelector = `event.check.state != "passing"`

// String returns the name persisted in the state file.
func (v View) String() string {
	switch v {
	case ViewAll:
		return "all"
	case ViewSilenced:
		return "silenced"
	default:
		return "not_passing"
	}
}

// Title is the label shown in the view bar.
func (v View) Title() string {
	switch v {
	case ViewAll:
		return "All"
	case ViewSilenced:
		return "Silenced"
	default:
		return "Not Passing"
	}
}

// ParseView maps a persisted name back to a View.
func ParseView(name string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "not_passing", "":
		return ViewNotPassing, nil
	case "all":
		return ViewAll, nil
	case "silenced":
		return ViewSilenced, nil
	default:
		return ViewNotPassing, fmt.Errorf("unknown view %q", name)
	}
}

// Resource is the backend collection the view reads.
func (v View) Resource() string {
	if v == ViewSilenced {
		return "silenced"
	}
	return "events"
}

// IsEvents reports whether the view lists events rather than silences.
func (v View) IsEvents() bool { return v != ViewSilenced }

// Query builds the fetch query for the view with the given page limit.
func (v View) Query(limit int) fetch.Query {
	q := fetch.Query{Resource: v.Resource(), Limit: limit}
	if v == ViewNotPassing {
		q.FieldSelector = notPassingSelector
	}
	return q
}

// Request is what the dashboard wants listed: one view of one namespace,
// fetched in pages of Limit items.
type Request struct {
	Namespace string
	View      View
	Limit     int
}

// Query returns the fetch query for r.
func (r Request) Query() fetch.Query {
	return r.View.Query(r.Limit)
}
