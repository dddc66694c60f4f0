package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskQuery(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		completed *bool
		limit     int
		skip      int
		field     TaskSortField
		direction SortDirection
	}{
		{name: "empty", raw: ""},
		{name: "completed true", raw: "completed=true", completed: boolPtr(true)},
		{name: "completed false", raw: "completed=false", completed: boolPtr(false)},
		{name: "completed other value filters false", raw: "completed=yes", completed: boolPtr(false)},
		{name: "empty completed is no filter", raw: "completed="},
		{name: "pagination", raw: "limit=2&skip=2", limit: 2, skip: 2},
		{name: "non-numeric pagination ignored", raw: "limit=ten&skip=abc"},
		{name: "negative pagination ignored", raw: "limit=-1&skip=-5"},
		{name: "camel case desc", raw: "sortBy=createdAt_desc", field: TaskSortCreatedAt, direction: SortDesc},
		{name: "snake case desc", raw: "sortBy=created_at_desc", field: TaskSortCreatedAt, direction: SortDesc},
		{name: "snake case without direction", raw: "sortBy=updated_at", field: TaskSortUpdatedAt, direction: SortAsc},
		{name: "unknown direction is asc", raw: "sortBy=completed_sideways", field: TaskSortCompleted, direction: SortAsc},
		{name: "no direction is asc", raw: "sortBy=description", field: TaskSortDescription, direction: SortAsc},
		{name: "unknown field ignored", raw: "sortBy=owner_desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			q := ParseTaskQuery(values)

			if tt.completed == nil {
				assert.Nil(t, q.Completed)
			} else {
				require.NotNil(t, q.Completed)
				assert.Equal(t, *tt.completed, *q.Completed)
			}
			assert.Equal(t, tt.limit, q.Limit)
			assert.Equal(t, tt.skip, q.Skip)
			assert.Equal(t, tt.field, q.SortField)
			assert.Equal(t, tt.direction, q.SortDirection)
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}
