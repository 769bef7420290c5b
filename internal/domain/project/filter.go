package project

import (
	"sort"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/domain/validation"
)

var (
	projectSortFields = []string{"name"}
	sortOrders        = []string{"asc", "desc"}
)

// Filter holds every project read parameter. The child-aggregate
// predicates (MinTaskCount, HasOverdueTasks, HasNoDueDates, StalledOnly)
// are evaluated by the service against each project's incomplete tasks.
type Filter struct {
	Status []string // API status values; empty = all
	Query  string   // case-insensitive over name, note, folder path

	CreatedAfter   string
	CreatedBefore  string
	ModifiedAfter  string
	ModifiedBefore string

	MinTaskCount    int
	HasOverdueTasks *bool
	HasNoDueDates   *bool
	StalledOnly     bool

	SortBy    string // name
	SortOrder string // asc | desc
}

type compiled struct {
	Filter
	statuses       map[Status]bool
	createdAfter   *time.Time
	createdBefore  *time.Time
	modifiedAfter  *time.Time
	modifiedBefore *time.Time
	query          string
}

// Validate checks enumerated parameters and timestamps before any bridge
// call.
func (f Filter) Validate() error {
	_, err := f.compile(time.Local)
	return err
}

func (f Filter) compile(loc *time.Location) (compiled, error) {
	c := compiled{Filter: f, query: strings.ToLower(f.Query)}

	if len(f.Status) > 0 {
		c.statuses = make(map[Status]bool, len(f.Status))
		for _, s := range f.Status {
			if !containsString(Statuses, s) {
				return c, validation.NotInEnum("status", s, Statuses)
			}
			c.statuses[Status(s)] = true
		}
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

	if f.MinTaskCount < 0 {
		return c, validation.Newf("min_task_count", "must not be negative")
	}
	if f.SortBy != "" && !containsString(projectSortFields, f.SortBy) {
		return c, validation.NotInEnum("sort_by", f.SortBy, projectSortFields)
	}
	if f.SortOrder != "" && !containsString(sortOrders, f.SortOrder) {
		return c, validation.NotInEnum("sort_order", f.SortOrder, sortOrders)
	}

	return c, nil
}

// apply runs the record-local predicates; aggregate predicates are the
// service's job.
func (f Filter) apply(candidates []Project, loc *time.Location) ([]Project, error) {
	c, err := f.compile(loc)
	if err != nil {
		return nil, err
	}

	out := make([]Project, 0, len(candidates))
	for _, p := range candidates {
		if c.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c compiled) matches(p Project) bool {
	if c.statuses != nil && !c.statuses[p.Status] {
		return false
	}
	if !inRange(p.CreationDate, c.createdAfter, c.createdBefore) {
		return false
	}
	if !inRange(p.ModificationDate, c.modifiedAfter, c.modifiedBefore) {
		return false
	}
	if c.query != "" {
		haystack := strings.ToLower(p.Name + "\n" + p.Note + "\n" + strings.Join(p.FolderPath, "/"))
		if !strings.Contains(haystack, c.query) {
			return false
		}
	}
	return true
}

func sortProjects(ps []Project, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}
	desc := sortOrder == "desc"
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := strings.ToLower(ps[i].Name), strings.ToLower(ps[j].Name)
		if desc {
			return a > b
		}
		return a < b
	})
}

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

func containsString(set []string, v string) bool {
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
