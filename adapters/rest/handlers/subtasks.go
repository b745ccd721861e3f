package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/pkg/res"
)

func NewCreateSubTaskHandler(log *slog.Logger, svc SubTaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.SubTaskIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		st, err := svc.CreateSubTask(ctx, principal(r), in.ToInput())
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "subtask created", "subtask_id", st.ID, http.StatusCreated)
	}
}

func NewGetSubTaskHandler(log *slog.Logger, svc SubTaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		st, err := svc.GetSubTask(ctx, principal(r), id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.SubTaskToOut(st), http.StatusOK)
	}
}

func NewListSubTasksHandler(log *slog.Logger, svc SubTaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, errs := parseSubTasksFilter(r)
		if errs != nil {
			res.Fields(w, errs)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		list, err := svc.ListSubTasks(ctx, f)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.NewPage(r, list, rest.SubTaskToOut), http.StatusOK)
	}
}

// NewUpdateSubTaskHandler applies a partial update; PUT and PATCH behave the same.
func NewUpdateSubTaskHandler(log *slog.Logger, svc SubTaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var in rest.SubTaskPatchIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		st, err := svc.UpdateSubTask(ctx, principal(r), id, in.ToPatch())
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "subtask updated", "subtask_id", st.ID, http.StatusOK)
	}
}

func NewDeleteSubTaskHandler(log *slog.Logger, svc SubTaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteSubTask(ctx, principal(r), id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "subtask deleted", "subtask_id", id, http.StatusOK)
	}
}
