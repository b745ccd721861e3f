package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andarie1/task-manager/core"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%report%", containsPattern("report"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, containsPattern(`c:\tmp`))
}

func TestTaskFilter_OwnerOnly(t *testing.T) {
	w := taskFilter(core.ListTasksFilter{OwnerID: 7})

	assert.Equal(t, " WHERE owner_id = $1", w.String())
	assert.Equal(t, []any{int64(7)}, w.args)
}

func TestTaskFilter_AllConditions(t *testing.T) {
	status := core.StatusDone
	deadline := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	day := time.Wednesday

	w := taskFilter(core.ListTasksFilter{
		OwnerID:  7,
		Status:   &status,
		Deadline: &deadline,
		Search:   "rep",
		Day:      &day,
	})

	assert.Equal(t,
		" WHERE owner_id = $1 AND status = $2 AND deadline = $3"+
			" AND (title ILIKE $4 OR description ILIKE $4)"+
			" AND EXTRACT(DOW FROM created_at AT TIME ZONE 'UTC') = $5",
		w.String())
	assert.Equal(t, []any{int64(7), "done", deadline, "%rep%", 3}, w.args)

	assert.Equal(t, "$6", w.next(5))
	assert.Equal(t, "$7", w.next(0))
}

func TestSubTaskFilter_TaskName(t *testing.T) {
	w := subTaskFilter(core.ListSubTasksFilter{OwnerID: 3, TaskName: "report"})

	assert.Equal(t, " WHERE s.owner_id = $1 AND t.title ILIKE $2", w.String())
	assert.Equal(t, []any{int64(3), "%report%"}, w.args)
}

func TestOrderDirection(t *testing.T) {
	assert.Equal(t, "ASC", orderDirection(core.OrderCreatedAsc))
	assert.Equal(t, "DESC", orderDirection(core.OrderCreatedDesc))
	assert.Equal(t, "ASC", orderDirection(""))
}
