package controller

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/api/response"
	"ctchen222/todo-api/internal/api/service"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/i18n"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TaskController handles the to-do endpoints. Every route is behind the auth
// middleware.
type TaskController struct {
	taskService service.TaskService
	msgs        *i18n.Messages
}

// NewTaskController creates a new TaskController.
func NewTaskController(taskService service.TaskService, msgs *i18n.Messages) *TaskController {
	return &TaskController{
		taskService: taskService,
		msgs:        msgs,
	}
}

// List returns the caller's open tasks. An empty list is answered with 404.
func (tc *TaskController) List(c *gin.Context) {
	tasks, err := tc.taskService.ListOpen(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		response.Fail(c, err, tc.msgs.Get(i18n.InternalError))
		return
	}
	if len(tasks) == 0 {
		response.Detail(c, http.StatusNotFound, tc.msgs.Get(i18n.NoTasks))
		return
	}
	response.JSON(c, http.StatusOK, tasks)
}

// Create adds a task for the caller.
func (tc *TaskController) Create(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, tc.msgs.Get(i18n.InvalidBody, err.Error()))
		return
	}

	task, err := tc.taskService.Create(c.Request.Context(), auth.CurrentUser(c), &req)
	if err != nil {
		response.Fail(c, err, tc.msgs.Get(i18n.InternalError))
		return
	}
	response.JSON(c, http.StatusCreated, task)
}

// Edit replaces title and description of an open task.
func (tc *TaskController) Edit(c *gin.Context) {
	taskID, ok := tc.taskID(c)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, tc.msgs.Get(i18n.InvalidBody, err.Error()))
		return
	}

	task, err := tc.taskService.Update(c.Request.Context(), auth.CurrentUser(c), taskID, &req)
	if err != nil {
		response.Fail(c, tc.notFound(err), tc.msgs.Get(i18n.InternalError))
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// MarkDone moves an open task to DONE.
func (tc *TaskController) MarkDone(c *gin.Context) {
	taskID, ok := tc.taskID(c)
	if !ok {
		return
	}

	task, err := tc.taskService.MarkDone(c.Request.Context(), auth.CurrentUser(c), taskID)
	if err != nil {
		response.Fail(c, tc.notFound(err), tc.msgs.Get(i18n.InternalError))
		return
	}
	response.Detail(c, http.StatusOK, tc.msgs.Get(i18n.StatusChanged, task.ID))
}

func (tc *TaskController) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, tc.msgs.Get(i18n.InvalidBody, "id: "+err.Error()))
		return 0, false
	}
	return id, true
}

func (tc *TaskController) notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return response.NewError(http.StatusNotFound, tc.msgs.Get(i18n.TaskNotFound))
	}
	return err
}
