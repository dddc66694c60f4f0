package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SortDirection orders a task listing.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TaskSortField names a sortable task attribute.
type TaskSortField string

// Sortable task fields.
const (
	TaskSortCreatedAt   TaskSortField = "created_at"
	TaskSortUpdatedAt   TaskSortField = "updated_at"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

var taskSortAliases = map[string]TaskSortField{
	"createdAt":   TaskSortCreatedAt,
	"created_at":  TaskSortCreatedAt,
	"updatedAt":   TaskSortUpdatedAt,
	"updated_at":  TaskSortUpdatedAt,
	"description": TaskSortDescription,
	"completed":   TaskSortCompleted,
}

// TaskQuery describes a listing of the caller's tasks.
// Completed nil means no completion filter. Limit 0 means no limit.
type TaskQuery struct {
	Completed     *bool
	Limit         int
	Skip          int
	SortField     TaskSortField
	SortDirection SortDirection
}

// ParseTaskQuery builds a TaskQuery from request query parameters:
//
//	completed=true|false   any value other than "true" filters on false;
//	                       an empty value applies no filter
//	limit=N, skip=N        non-numeric or negative values are ignored
//	sortBy=field_dir       dir "desc" sorts descending, anything else ascending
//
// Unknown sort fields leave SortField empty so the store applies its default
// ordering. ParseTaskQuery never fails.
func ParseTaskQuery(values url.Values) TaskQuery {
	var q TaskQuery

	if raw := values.Get("completed"); raw != "" {
		completed := raw == "true"
		q.Completed = &completed
	}

	q.Limit = parseNonNegative(values.Get("limit"))
	q.Skip = parseNonNegative(values.Get("skip"))

	if sortBy := values.Get("sortBy"); sortBy != "" {
		field, dir := sortBy, ""
		// Field aliases such as created_at contain the separator themselves.
		if _, whole := taskSortAliases[sortBy]; !whole {
			if i := strings.LastIndex(sortBy, "_"); i >= 0 {
				field, dir = sortBy[:i], sortBy[i+1:]
			}
		}
		if f, ok := taskSortAliases[field]; ok {
			q.SortField = f
			q.SortDirection = SortAsc
			if dir == string(SortDesc) {
				q.SortDirection = SortDesc
			}
		}
	}

	return q
}

func parseNonNegative(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
