package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/pkg/res"
)

func NewCreateCategoryHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.CategoryIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		c, err := svc.CreateCategory(ctx, in.Name)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "category created", "category_id", c.ID, http.StatusCreated)
	}
}

func NewGetCategoryHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		c, err := svc.GetCategory(ctx, id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, rest.CategoryToOut(c), http.StatusOK)
	}
}

func NewListCategoriesHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		showDeleted := r.URL.Query().Get("show_deleted") == "true"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListCategories(ctx, showDeleted)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}

		out := make([]rest.CategoryOut, 0, len(items))
		for _, c := range items {
			out = append(out, rest.CategoryToOut(c))
		}
		res.Json(w, out, http.StatusOK)
	}
}

func NewUpdateCategoryHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var in rest.CategoryIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		c, err := svc.UpdateCategory(ctx, id, in.Name)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "category updated", "category_id", c.ID, http.StatusOK)
	}
}

// NewDeleteCategoryHandler soft-deletes; it serves both DELETE and the soft_delete action.
func NewDeleteCategoryHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.SoftDeleteCategory(ctx, id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "category deleted", "category_id", id, http.StatusOK)
	}
}

func NewRestoreCategoryHandler(log *slog.Logger, svc CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.RestoreCategory(ctx, id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Message(w, "category restored", "category_id", id, http.StatusOK)
	}
}
