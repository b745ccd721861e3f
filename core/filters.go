package core

import (
	"strings"
	"time"
)

const (
	DefaultPageLimit = 5
	MaxPageLimit     = 10
)

type Ordering string

const (
	OrderCreatedAsc  Ordering = "created_at"
	OrderCreatedDesc Ordering = "-created_at"
)

func (o Ordering) Valid() bool {
	return o == OrderCreatedAsc || o == OrderCreatedDesc
}

// Descending reports whether rows come newest first.
func (o Ordering) Descending() bool {
	return o == OrderCreatedDesc
}

// Page is the limit/offset window applied to a list query.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// normalize applies the default limit and clamps it to MaxPageLimit.
func (p Page) normalize() Page {
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

type ListTasksFilter struct {
	OwnerID  int64         `json:"-"`
	Status   *TaskStatus   `json:"status"`
	Deadline *time.Time    `json:"deadline"`
	Search   string        `json:"search"`
	Day      *time.Weekday `json:"day"` // compared with created_at in UTC
	Ordering Ordering      `json:"ordering"`
	Page
}

type ListSubTasksFilter struct {
	OwnerID  int64       `json:"-"`
	Status   *TaskStatus `json:"status"`
	Deadline *time.Time  `json:"deadline"`
	Search   string      `json:"search"`
	TaskName string      `json:"task_name"` // substring of the parent task title
	Ordering Ordering    `json:"ordering"`
	Page
}

// List is one page of results plus the size of the whole filtered set.
type List[T any] struct {
	Items []T
	Count int
	Page  Page
}

// HasNext reports whether rows remain after this page.
func (l List[T]) HasNext() bool {
	return l.Page.Offset+l.Page.Limit < l.Count
}

// HasPrev reports whether this page starts after the first row.
func (l List[T]) HasPrev() bool {
	return l.Page.Offset > 0
}

// weekdays maps Russian day names to time.Weekday.
var weekdays = map[string]time.Weekday{
	"понедельник": time.Monday,
	"вторник":     time.Tuesday,
	"среда":       time.Wednesday,
	"четверг":     time.Thursday,
	"пятница":     time.Friday,
	"суббота":     time.Saturday,
	"воскресенье": time.Sunday,
}

// ParseWeekday resolves a Russian day name, ignoring case and surrounding spaces.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

func validateListArgs(kind error, status *TaskStatus, ordering Ordering, p Page) error {
	if p.Limit < 0 || p.Offset < 0 {
		return invalid(kind, "limit and offset must not be negative")
	}
	if status != nil && !status.Valid() {
		return invalid(kind, "unknown status")
	}
	if ordering != "" && !ordering.Valid() {
		return invalid(kind, "unsupported ordering")
	}
	return nil
}
