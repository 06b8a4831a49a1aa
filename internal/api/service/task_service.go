package service

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
)

// TaskService exposes the task operations available to an authenticated
// user. Every call is scoped to owner.
type TaskService interface {
	ListOpen(ctx context.Context, owner *models.User) ([]models.Task, error)
	Create(ctx context.Context, owner *models.User, req *models.TaskRequest) (*models.Task, error)
	Update(ctx context.Context, owner *models.User, taskID int64, req *models.TaskRequest) (*models.Task, error)
	MarkDone(ctx context.Context, owner *models.User, taskID int64) (*models.Task, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) ListOpen(ctx context.Context, owner *models.User) ([]models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.ListOpen")
	defer span.End()

	return s.taskRepo.ListOpen(ctx, owner.ID)
}

func (s *taskService) Create(ctx context.Context, owner *models.User, req *models.TaskRequest) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.Create")
	defer span.End()

	task, err := s.taskRepo.Create(ctx, owner.ID, req.Title, *req.Description)
	if err != nil {
		return nil, err
	}
	tasksCreated.Add(ctx, 1)
	return task, nil
}

// Update edits an open task. Done, foreign and missing tasks all yield
// repository.ErrNotFound.
func (s *taskService) Update(ctx context.Context, owner *models.User, taskID int64, req *models.TaskRequest) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.Update")
	defer span.End()

	return s.taskRepo.Update(ctx, owner.ID, taskID, req.Title, *req.Description)
}

// MarkDone completes an open task. A second call for the same task yields
// repository.ErrNotFound.
func (s *taskService) MarkDone(ctx context.Context, owner *models.User, taskID int64) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.MarkDone")
	defer span.End()

	task, err := s.taskRepo.MarkDone(ctx, owner.ID, taskID)
	if err != nil {
		return nil, err
	}
	tasksCompleted.Add(ctx, 1)
	return task, nil
}
