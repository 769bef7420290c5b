package task

import (
	"sort"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/dates"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
)

// Tag filter modes.
const (
	TagModeAnd = "and"
	TagModeOr  = "or"
	TagModeNot = "not"
)

var tagModes = []string{TagModeAnd, TagModeOr, TagModeNot}

// Sort parameters.
const (
	SortByName      = "name"
	SortByDueDate   = "due_date"
	SortByDeferDate = "defer_date"

	SortAsc  = "asc"
	SortDesc = "desc"
)

var (
	taskSortFields = []string{SortByName, SortByDueDate, SortByDeferDate}
	sortOrders     = []string{SortAsc, SortDesc}
)

// Filter holds every task read parameter. Filter categories combine with
// logical AND; only the tag filter exposes its own boolean mode. Zero
// values mean "not filtered".
type Filter struct {
	// Scope (narrows the backend query).
	ProjectID        string
	InboxOnly        bool
	IncludeCompleted bool
	DroppedOnly      bool

	// Boolean flags.
	FlaggedOnly   bool
	BlockedOnly   bool
	NextOnly      bool
	AvailableOnly bool
	Overdue       bool

	// Tag boolean filter; names compare case-insensitively.
	TagFilter     []string
	TagFilterMode string // and | or | not; defaults to and

	// Relative date filters (today | tomorrow | this_week | next_week | overdue).
	DueRelative   string
	DeferRelative string

	// Absolute range filters, ISO-8601 text. Inclusive bounds; records with
	// no value for the field fail closed when either bound is set.
	CreatedAfter   string
	CreatedBefore  string
	ModifiedAfter  string
	ModifiedBefore string

	// Numeric threshold.
	MaxEstimatedMinutes int
	HasEstimate         *bool

	// Free-text query over name and note, case-insensitive.
	Query string

	SortBy    string
	SortOrder string // asc | desc; defaults to asc
}

// compiled is a Filter with enums checked and timestamps parsed.
type compiled struct {
	Filter
	tagMode        string
	dueWindow      *dates.Window
	deferWindow    *dates.Window
	createdAfter   *time.Time
	createdBefore  *time.Time
	modifiedAfter  *time.Time
	modifiedBefore *time.Time
	query          string
}

// Validate checks every enumerated parameter and timestamp before any
// bridge call, naming the offending parameter on failure.
func (f Filter) Validate() error {
	_, err := f.compile(time.Now(), time.Local)
	return err
}

func (f Filter) compile(now time.Time, loc *time.Location) (compiled, error) {
	c := compiled{Filter: f, tagMode: f.TagFilterMode, query: strings.ToLower(f.Query)}

	if c.tagMode == "" {
		c.tagMode = TagModeAnd
	}
	if !contains(tagModes, c.tagMode) {
		return c, validation.NotInEnum("tag_filter_mode", f.TagFilterMode, tagModes)
	}

	if f.DueRelative != "" {
		w, ok := dates.Relative(f.DueRelative, now, loc)
		if !ok {
			return c, validation.NotInEnum("due_relative", f.DueRelative, dates.RelativeTokens)
		}
		c.dueWindow = &w
	}
	if f.DeferRelative != "" {
		w, ok := dates.Relative(f.DeferRelative, now, loc)
		if !ok {
			return c, validation.NotInEnum("defer_relative", f.DeferRelative, dates.RelativeTokens)
		}
		c.deferWindow = &w
	}

	var err error
	if c.createdAfter, err = parseParamTime("created_after", f.CreatedAfter, loc); err != nil {
		return c, err
	}
	if c.createdBefore, err = parseParamTime("created_before", f.CreatedBefore, loc); err != nil {
		return c, err
	}
	if c.modifiedAfter, err = parseParamTime("modified_after", f.ModifiedAfter, loc); err != nil {
		return c, err
	}
	if c.modifiedBefore, err = parseParamTime("modified_before", f.ModifiedBefore, loc); err != nil {
		return c, err
	}

	if f.MaxEstimatedMinutes < 0 {
		return c, validation.Newf("max_estimated_minutes", "must be positive")
	}

	if f.SortBy != "" && !contains(taskSortFields, f.SortBy) {
		return c, validation.NotInEnum("sort_by", f.SortBy, taskSortFields)
	}
	if f.SortOrder != "" && !contains(sortOrders, f.SortOrder) {
		return c, validation.NotInEnum("sort_order", f.SortOrder, sortOrders)
	}

	return c, nil
}

// Apply filters and sorts candidates. Validation happens first; the
// candidate order is preserved when no sort_by is given.
func (f Filter) Apply(candidates []Task, now time.Time, loc *time.Location) ([]Task, error) {
	c, err := f.compile(now, loc)
	if err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(candidates))
	for _, t := range candidates {
		if c.matches(t, now) {
			out = append(out, t)
		}
	}

	sortTasks(out, f.SortBy, f.SortOrder)
	return out, nil
}

func (c compiled) matches(t Task, now time.Time) bool {
	if !c.IncludeCompleted && t.Completed {
		return false
	}
	if c.DroppedOnly && !t.Dropped {
		return false
	}
	if c.InboxOnly && !t.InInbox() {
		return false
	}
	if c.FlaggedOnly && !t.Flagged {
		return false
	}
	if c.BlockedOnly && !t.Blocked {
		return false
	}
	if c.NextOnly && !t.Next {
		return false
	}
	if c.AvailableOnly {
		if t.Dropped || t.Blocked {
			return false
		}
		if t.DeferDate != nil && t.DeferDate.After(now) {
			return false
		}
	}
	if c.Overdue {
		if t.DueDate == nil || !t.DueDate.Before(now) {
			return false
		}
	}

	// Relative windows fail closed on a missing date.
	if c.dueWindow != nil {
		if t.DueDate == nil || !c.dueWindow.Contains(*t.DueDate) {
			return false
		}
	}
	if c.deferWindow != nil {
		if t.DeferDate == nil || !c.deferWindow.Contains(*t.DeferDate) {
			return false
		}
	}

	if !inRange(t.CreationDate, c.createdAfter, c.createdBefore) {
		return false
	}
	if !inRange(t.ModificationDate, c.modifiedAfter, c.modifiedBefore) {
		return false
	}

	if c.MaxEstimatedMinutes > 0 {
		if t.EstimatedMinutes == nil || *t.EstimatedMinutes > c.MaxEstimatedMinutes {
			return false
		}
	}
	if c.HasEstimate != nil {
		has := t.EstimatedMinutes != nil && *t.EstimatedMinutes > 0
		if has != *c.HasEstimate {
			return false
		}
	}

	if len(c.TagFilter) > 0 && !matchTags(t.Tags, c.TagFilter, c.tagMode) {
		return false
	}

	if c.query != "" {
		if !strings.Contains(strings.ToLower(t.Name), c.query) &&
			!strings.Contains(strings.ToLower(t.Note), c.query) {
			return false
		}
	}

	return true
}

// inRange applies inclusive bounds. A record with no value fails closed
// whenever either bound is set.
func inRange(value, after, before *time.Time) bool {
	if after == nil && before == nil {
		return true
	}
	if value == nil {
		return false
	}
	if after != nil && value.Before(*after) {
		return false
	}
	if before != nil && value.After(*before) {
		return false
	}
	return true
}

// matchTags implements the tag boolean algebra. and: filter is a subset of
// the task's tags; or: non-empty intersection; not: empty intersection (a
// task with zero tags always passes not).
func matchTags(taskTags, filter []string, mode string) bool {
	set := make(map[string]bool, len(taskTags))
	for _, tag := range taskTags {
		set[strings.ToLower(tag)] = true
	}

	hits := 0
	for _, want := range filter {
		if set[strings.ToLower(want)] {
			hits++
		}
	}

	switch mode {
	case TagModeOr:
		return hits > 0
	case TagModeNot:
		return hits == 0
	default:
		return hits == len(filter)
	}
}

func sortTasks(ts []Task, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}
	desc := sortOrder == SortDesc

	sort.SliceStable(ts, func(i, j int) bool {
		switch sortBy {
		case SortByName:
			a, b := strings.ToLower(ts[i].Name), strings.ToLower(ts[j].Name)
			if desc {
				return a > b
			}
			return a < b
		case SortByDueDate:
			return dateLess(ts[i].DueDate, ts[j].DueDate, desc)
		case SortByDeferDate:
			return dateLess(ts[i].DeferDate, ts[j].DeferDate, desc)
		}
		return false
	})
}

// dateLess orders present values by time and keeps absent values strictly
// last regardless of direction.
func dateLess(a, b *time.Time, desc bool) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return false
	case b == nil:
		return true
	}
	if desc {
		return a.After(*b)
	}
	return a.Before(*b)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func parseParamTime(param, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return &t, nil
	}
	return nil, validation.Newf(param, "not an ISO-8601 timestamp: %q", value)
}
