package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/core"
	"github.com/andarie1/task-manager/pkg/res"
)

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		res.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// principal is the id of the authenticated caller; RequireAuth guarantees it exists.
func principal(r *http.Request) int64 {
	u, _ := rest.UserFromContext(r.Context())
	return u.ID
}

// listParams holds the query parameters shared by task and subtask listings.
type listParams struct {
	status   *core.TaskStatus
	deadline *time.Time
	search   string
	ordering core.Ordering
	page     core.Page
}

// parseListParams reads the common list parameters; the map holds per-parameter errors.
func parseListParams(q url.Values) (listParams, map[string]string) {
	var (
		p    listParams
		errs = map[string]string{}
	)

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st := core.TaskStatus(v)
		if !st.Valid() {
			errs["status"] = "unknown status"
		}
		p.status = &st
	}

	if v := q.Get("deadline"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs["deadline"] = "expected an RFC 3339 timestamp"
		}
		p.deadline = &t
	}

	p.search = q.Get("search")

	if v := q.Get("ordering"); v != "" {
		p.ordering = core.Ordering(v)
		if !p.ordering.Valid() {
			errs["ordering"] = "expected created_at or -created_at"
		}
	}

	for name, dst := range map[string]*int{"limit": &p.page.Limit, "offset": &p.page.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errs[name] = "must be a non-negative integer"
			}
			*dst = n
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return p, errs
}

func parseTasksFilter(r *http.Request) (core.ListTasksFilter, map[string]string) {
	q := r.URL.Query()
	p, errs := parseListParams(q)

	f := core.ListTasksFilter{
		OwnerID:  principal(r),
		Status:   p.status,
		Deadline: p.deadline,
		Search:   p.search,
		Ordering: p.ordering,
		Page:     p.page,
	}

	if v := q.Get("day"); v != "" {
		day, ok := core.ParseWeekday(v)
		if !ok {
			if errs == nil {
				errs = map[string]string{}
			}
			errs["day"] = "unknown day of week"
		}
		f.Day = &day
	}
	return f, errs
}

func parseSubTasksFilter(r *http.Request) (core.ListSubTasksFilter, map[string]string) {
	q := r.URL.Query()
	p, errs := parseListParams(q)

	return core.ListSubTasksFilter{
		OwnerID:  principal(r),
		Status:   p.status,
		Deadline: p.deadline,
		Search:   p.search,
		TaskName: q.Get("task_name"),
		Ordering: p.ordering,
		Page:     p.page,
	}, errs
}
