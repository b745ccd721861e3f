package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/core"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string) (core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	ListCategories(ctx context.Context, includeDeleted bool) ([]core.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (core.Category, error)
	SoftDeleteCategory(ctx context.Context, id int64) error
	RestoreCategory(ctx context.Context, id int64) error
}

type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, in core.TaskInput) (core.Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (core.Task, error)
	GetTaskDetail(ctx context.Context, ownerID, id int64) (core.TaskDetail, error)
	ListTasks(ctx context.Context, f core.ListTasksFilter) (core.List[core.Task], error)
	UpdateTask(ctx context.Context, ownerID, id int64, in core.TaskInput) (core.Task, error)
	PatchTask(ctx context.Context, ownerID, id int64, p core.TaskPatch) (core.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) error
	TaskStatistics(ctx context.Context, ownerID int64) (core.TaskStats, error)
}

type SubTaskService interface {
	CreateSubTask(ctx context.Context, ownerID int64, in core.SubTaskInput) (core.SubTask, error)
	GetSubTask(ctx context.Context, ownerID, id int64) (core.SubTask, error)
	ListSubTasks(ctx context.Context, f core.ListSubTasksFilter) (core.List[core.SubTask], error)
	UpdateSubTask(ctx context.Context, ownerID, id int64, p core.SubTaskPatch) (core.SubTask, error)
	DeleteSubTask(ctx context.Context, ownerID, id int64) error
}

type AuthService interface {
	rest.Authenticator
	Register(ctx context.Context, in core.Registration) (core.User, error)
	Login(ctx context.Context, username, password string) (core.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	Logout(ctx context.Context, userID int64, refresh string) error
}

var (
	_ CategoryService = (*core.Service)(nil)
	_ TaskService     = (*core.Service)(nil)
	_ SubTaskService  = (*core.Service)(nil)
	_ AuthService     = (*core.AuthService)(nil)
)

type Deps struct {
	Categories CategoryService
	Tasks      TaskService
	SubTasks   SubTaskService
	Auth       AuthService
	Pingers    map[string]core.Pinger
}

func Register(mux *http.ServeMux, log *slog.Logger, deps Deps, timeout time.Duration) {
	auth := rest.RequireAuth(log, deps.Auth)

	// ping
	mux.Handle("GET /api/ping", NewPingHandler(log, deps.Pingers, timeout))

	// auth
	mux.Handle("POST /api/register/{$}", NewRegisterHandler(log, deps.Auth, timeout))
	mux.Handle("POST /api/login/{$}", NewLoginHandler(log, deps.Auth, timeout))
	mux.Handle("POST /api/token/refresh/{$}", NewRefreshHandler(log, deps.Auth, timeout))
	mux.Handle("POST /api/logout/{$}", auth(NewLogoutHandler(log, deps.Auth, timeout)))

	// categories
	mux.Handle("POST /api/categories/{$}", auth(NewCreateCategoryHandler(log, deps.Categories, timeout)))
	mux.Handle("GET /api/categories/{$}", auth(NewListCategoriesHandler(log, deps.Categories, timeout)))
	mux.Handle("GET /api/categories/{id}/{$}", auth(NewGetCategoryHandler(log, deps.Categories, timeout)))
	mux.Handle("PUT /api/categories/{id}/{$}", auth(NewUpdateCategoryHandler(log, deps.Categories, timeout)))
	mux.Handle("DELETE /api/categories/{id}/{$}", auth(NewDeleteCategoryHandler(log, deps.Categories, timeout)))
	mux.Handle("POST /api/categories/{id}/soft_delete/{$}", auth(NewDeleteCategoryHandler(log, deps.Categories, timeout)))
	mux.Handle("POST /api/categories/{id}/restore/{$}", auth(NewRestoreCategoryHandler(log, deps.Categories, timeout)))

	// tasks
	mux.Handle("POST /api/tasks/{$}", auth(NewCreateTaskHandler(log, deps.Tasks, timeout)))
	mux.Handle("GET /api/tasks/{$}", auth(NewListTasksHandler(log, deps.Tasks, timeout)))
	mux.Handle("GET /api/tasks/statistics/{$}", auth(NewTaskStatisticsHandler(log, deps.Tasks, timeout)))
	mux.Handle("GET /api/tasks/detail/{id}/{$}", auth(NewTaskDetailHandler(log, deps.Tasks, timeout)))
	mux.Handle("GET /api/tasks/{id}/{$}", auth(NewGetTaskHandler(log, deps.Tasks, timeout)))
	mux.Handle("PUT /api/tasks/{id}/{$}", auth(NewUpdateTaskHandler(log, deps.Tasks, timeout)))
	mux.Handle("PATCH /api/tasks/{id}/{$}", auth(NewPatchTaskHandler(log, deps.Tasks, timeout)))
	mux.Handle("DELETE /api/tasks/{id}/{$}", auth(NewDeleteTaskHandler(log, deps.Tasks, timeout)))

	// subtasks
	mux.Handle("POST /api/subtasks/{$}", auth(NewCreateSubTaskHandler(log, deps.SubTasks, timeout)))
	mux.Handle("GET /api/subtasks/{$}", auth(NewListSubTasksHandler(log, deps.SubTasks, timeout)))
	mux.Handle("GET /api/subtasks/{id}/{$}", auth(NewGetSubTaskHandler(log, deps.SubTasks, timeout)))
	mux.Handle("PUT /api/subtasks/{id}/{$}", auth(NewUpdateSubTaskHandler(log, deps.SubTasks, timeout)))
	mux.Handle("PATCH /api/subtasks/{id}/{$}", auth(NewUpdateSubTaskHandler(log, deps.SubTasks, timeout)))
	mux.Handle("DELETE /api/subtasks/{id}/{$}", auth(NewDeleteSubTaskHandler(log, deps.SubTasks, timeout)))
}
