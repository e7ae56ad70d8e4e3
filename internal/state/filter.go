package state

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/five82/tensu/internal/prefs"
	"github.com/five82/tensu/internal/sensu"
)

type fieldFilter struct {
	label   string
	pattern string
	field   func(sensu.Item) string
}

func filtersFor(view View, f prefs.Filters) []fieldFilter {
	if view.IsEvents() {
		return []fieldFilter{
			{label: "host", pattern: f.Host, field: sensu.Item.EntityName},
			{label: "check", pattern: f.Check, field: sensu.Item.CheckName},
			{label: "output", pattern: f.Output, field: sensu.Item.CheckOutput},
		}
	}
	return []fieldFilter{
		{label: "name", pattern: f.Name, field: sensu.Item.Name},
		{label: "creator", pattern: f.Creator, field: sensu.Item.Creator},
		{label: "reason", pattern: f.Reason, field: sensu.Item.Reason},
	}
}

// ApplyFilters keeps the items matching every non-empty regular expression
// that applies to view. Patterns that fail to compile are skipped and
// reported in the returned error; the remaining filters still apply.
func ApplyFilters(view View, items []sensu.Item, f prefs.Filters) ([]sensu.Item, error) {
	var errs []error
	out := items
	for _, ff := range filtersFor(view, f) {
		if ff.pattern == "" {
			continue
		}
		re, err := regexp.Compile(ff.pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s filter: %w", ff.label, err))
			continue
		}
		kept := make([]sensu.Item, 0, len(out))
		for _, item := range out {
			if re.MatchString(ff.field(item)) {
				kept = append(kept, item)
			}
		}
		out = kept
	}
	return out, errors.Join(errs...)
}

// ActiveFilters reports whether any filter applies to view.
func ActiveFilters(view View, f prefs.Filters) bool {
	for _, ff := range filtersFor(view, f) {
		if ff.pattern != "" {
			return true
		}
	}
	return false
}
