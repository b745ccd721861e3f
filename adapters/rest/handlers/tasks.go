package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/pkg/res"
)

func NewCreateTaskHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.TaskIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTask(ctx, principal(r), in.ToInput())
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "task created", "task_id", t.ID, http.StatusCreated)
	}
}

func NewGetTaskHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTask(ctx, principal(r), id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.TaskToOut(t), http.StatusOK)
	}
}

func NewTaskDetailHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		d, err := svc.GetTaskDetail(ctx, principal(r), id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.TaskDetailToOut(d), http.StatusOK)
	}
}

func NewListTasksHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, errs := parseTasksFilter(r)
		if errs != nil {
			res.Fields(w, errs)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		list, err := svc.ListTasks(ctx, f)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.NewPage(r, list, rest.TaskToOut), http.StatusOK)
	}
}

// NewUpdateTaskHandler replaces every editable field (PUT).
func NewUpdateTaskHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var in rest.TaskIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.UpdateTask(ctx, principal(r), id, in.ToInput())
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "task updated", "task_id", t.ID, http.StatusOK)
	}
}

func NewPatchTaskHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var in rest.TaskPatchIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.PatchTask(ctx, principal(r), id, in.ToPatch())
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "task updated", "task_id", t.ID, http.StatusOK)
	}
}

func NewDeleteTaskHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTask(ctx, principal(r), id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "task deleted", "task_id", id, http.StatusOK)
	}
}

func NewTaskStatisticsHandler(log *slog.Logger, svc TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		stats, err := svc.TaskStatistics(ctx, principal(r))
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.StatsToOut(stats), http.StatusOK)
	}
}
