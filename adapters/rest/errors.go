package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/andarie1/task-manager/core"
	"github.com/andarie1/task-manager/pkg/res"
)

// WriteErr maps service errors to HTTP statuses; unknown errors are logged and hidden.
func WriteErr(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrInvalidToken):
		res.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, core.ErrPermissionDenied):
		res.Error(w, "you do not have permission to perform this action", http.StatusForbidden)
	case errors.Is(err, core.ErrUserAlreadyExists):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrTaskInvalidArgs),
		errors.Is(err, core.ErrSubTaskInvalidArgs),
		errors.Is(err, core.ErrCategoryInvalidArgs),
		errors.Is(err, core.ErrUserInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrSubTaskNotFound),
		errors.Is(err, core.ErrCategoryNotFound),
		errors.Is(err, core.ErrUserNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrTaskAlreadyExists),
		errors.Is(err, core.ErrSubTaskAlreadyExists),
		errors.Is(err, core.ErrCategoryAlreadyExists):
		res.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error("request failed", "error", err)
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
