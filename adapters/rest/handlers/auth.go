package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/core"
	"github.com/andarie1/task-manager/pkg/res"
)

func NewRegisterHandler(log *slog.Logger, svc AuthService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.RegisterIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.Register(ctx, core.Registration{
			Username:  in.Username,
			Email:     in.Email,
			Password:  in.Password,
			Password2: in.Password2,
		})
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}

		res.Json(w, map[string]any{
			"message":  "user registered successfully",
			"user_id":  u.ID,
			"username": u.Username,
			"email":    u.Email,
		}, http.StatusCreated)
	}
}

func NewLoginHandler(log *slog.Logger, svc AuthService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.LoginIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		pair, err := svc.Login(ctx, in.Username, in.Password)
		if errors.Is(err, core.ErrUnauthorized) {
			res.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, map[string]string{"access": pair.Access, "refresh": pair.Refresh}, http.StatusOK)
	}
}

func NewRefreshHandler(log *slog.Logger, svc AuthService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.RefreshIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		access, err := svc.Refresh(ctx, in.Refresh)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, map[string]string{"access": access}, http.StatusOK)
	}
}

func NewLogoutHandler(log *slog.Logger, svc AuthService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.RefreshIn
		if !rest.Bind(w, r, &in) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		err := svc.Logout(ctx, principal(r), in.Refresh)
		if errors.Is(err, core.ErrInvalidToken) {
			res.Error(w, "invalid token", http.StatusBadRequest)
			return
		}
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, map[string]string{"message": "successfully logged out"}, http.StatusOK)
	}
}
