package rest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/andarie1/task-manager/core"
)

// Auth

type RegisterIn struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type LoginIn struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshIn struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Categories

type CategoryIn struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CategoryOut struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
}

func CategoryToOut(c core.Category) CategoryOut {
	return CategoryOut{ID: c.ID, Name: c.Name, IsDeleted: c.IsDeleted, CreatedAt: c.CreatedAt}
}

// Tasks

// TaskIn is the body of task create and full update.
type TaskIn struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description"`
	Status      *core.TaskStatus `json:"status" validate:"omitempty,oneof=new in_progress pending blocked done"`
	Deadline    *time.Time       `json:"deadline"`
	Categories  []int64          `json:"categories" validate:"omitempty,dive,gt=0"`
}

func (in TaskIn) ToInput() core.TaskInput {
	return core.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Deadline:    in.Deadline,
		CategoryIDs: in.Categories,
	}
}

// NullableTime tells an absent key apart from an explicit null.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}

type TaskPatchIn struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Status      *core.TaskStatus `json:"status" validate:"omitempty,oneof=new in_progress pending blocked done"`
	Deadline    NullableTime     `json:"deadline"`
	Categories  []int64          `json:"categories" validate:"omitempty,dive,gt=0"` // [] detaches all, absent keeps
}

func (in TaskPatchIn) ToPatch() core.TaskPatch {
	p := core.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	if in.Deadline.Set {
		p.Deadline = in.Deadline.Value
		p.ClearDeadline = in.Deadline.Value == nil
	}
	if in.Categories != nil {
		p.CategoryIDs = in.Categories
	}
	return p
}

type TaskOut struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      core.TaskStatus  `json:"status"`
	LastStatus  *core.TaskStatus `json:"last_status"`
	Deadline    *time.Time       `json:"deadline"`
	CreatedAt   time.Time        `json:"created_at"`
	Owner       *int64           `json:"owner"`
	Categories  []int64          `json:"categories"`
}

func TaskToOut(t core.Task) TaskOut {
	categories := t.CategoryIDs
	if categories == nil {
		categories = []int64{}
	}
	return TaskOut{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		LastStatus:  t.LastStatus,
		Deadline:    t.Deadline,
		CreatedAt:   t.CreatedAt,
		Owner:       t.OwnerID,
		Categories:  categories,
	}
}

type TaskDetailOut struct {
	TaskOut
	SubTasks []SubTaskOut `json:"subtasks"`
}

func TaskDetailToOut(d core.TaskDetail) TaskDetailOut {
	out := TaskDetailOut{TaskOut: TaskToOut(d.Task), SubTasks: make([]SubTaskOut, 0, len(d.SubTasks))}
	for _, st := range d.SubTasks {
		out.SubTasks = append(out.SubTasks, SubTaskToOut(st))
	}
	return out
}

type StatsOut struct {
	TotalTasks   int                     `json:"total_tasks"`
	StatusCounts map[core.TaskStatus]int `json:"status_counts"`
	OverdueTasks int                     `json:"overdue_tasks"`
}

func StatsToOut(s core.TaskStats) StatsOut {
	return StatsOut{TotalTasks: s.Total, StatusCounts: s.StatusCounts, OverdueTasks: s.Overdue}
}

// Subtasks

type SubTaskIn struct {
	Task        int64            `json:"task" validate:"required,gt=0"`
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description"`
	Status      *core.TaskStatus `json:"status" validate:"omitempty,oneof=new in_progress pending blocked done"`
	Deadline    *time.Time       `json:"deadline"`
}

func (in SubTaskIn) ToInput() core.SubTaskInput {
	return core.SubTaskInput{
		TaskID:      in.Task,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Deadline:    in.Deadline,
	}
}

type SubTaskPatchIn struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Status      *core.TaskStatus `json:"status" validate:"omitempty,oneof=new in_progress pending blocked done"`
	Deadline    *time.Time       `json:"deadline"`
}

func (in SubTaskPatchIn) ToPatch() core.SubTaskPatch {
	return core.SubTaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Deadline:    in.Deadline,
	}
}

type SubTaskOut struct {
	ID          int64           `json:"id"`
	Task        int64           `json:"task"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      core.TaskStatus `json:"status"`
	Deadline    *time.Time      `json:"deadline"`
	CreatedAt   time.Time       `json:"created_at"`
	Owner       *int64          `json:"owner"`
}

func SubTaskToOut(st core.SubTask) SubTaskOut {
	return SubTaskOut{
		ID:          st.ID,
		Task:        st.TaskID,
		Title:       st.Title,
		Description: st.Description,
		Status:      st.Status,
		Deadline:    st.Deadline,
		CreatedAt:   st.CreatedAt,
		Owner:       st.OwnerID,
	}
}
