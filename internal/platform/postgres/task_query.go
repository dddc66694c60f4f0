package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

const taskColumns = `id, owner_id, description, completed, created_at, updated_at`

// taskSortColumns maps sort fields onto columns. Only these names are ever
// interpolated into ORDER BY.
var taskSortColumns = map[domain.TaskSortField]string{
	domain.TaskSortCreatedAt:   "created_at",
	domain.TaskSortUpdatedAt:   "updated_at",
	domain.TaskSortDescription: "description",
	domain.TaskSortCompleted:   "completed",
}

// buildListTasksQuery renders the listing SQL and its positional arguments.
// Ordering falls back to created_at ASC and always ends with id ASC so that
// pagination is stable across ties.
func buildListTasksQuery(ownerID uuid.UUID, q domain.TaskQuery) (string, []any) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	if q.Completed != nil {
		args = append(args, *q.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	column, ok := taskSortColumns[q.SortField]
	direction := "ASC"
	if !ok {
		column = "created_at"
	} else if q.SortDirection == domain.SortDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, id ASC", column, direction)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
