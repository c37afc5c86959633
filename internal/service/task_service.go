package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"
)

// TaskService defines operations on the caller's own tasks. A task owned by
// somebody else is reported as ErrTaskNotFound.
type TaskService interface {
	List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error)
	Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (*model.Task, error)
	Get(ctx context.Context, userID, taskID int64) (*model.Task, error)
	Update(ctx context.Context, userID, taskID int64, req model.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

type taskService struct {
	store repository.Store
	now   func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store) TaskService {
	return &taskService{store: store, now: time.Now}
}

func (s *taskService) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.store.Tasks().ListByOwner(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tasks from repo: %w", err)
	}
	return tasks, nil
}

// parseDescription returns nil for an empty description
func parseDescription(raw string, verr *ValidationError) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if !utils.ValidateTaskDescription(v) {
		verr.Add(FieldDescription, msgDescriptionShort)
	}
	return &v
}

// parseDueDate returns nil for an empty date
func (s *taskService) parseDueDate(raw string, verr *ValidationError) *model.Date {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	t, ok := utils.ValidateFutureDateAt(v, s.now())
	if !ok {
		verr.Add(FieldDueDate, msgDueDateInvalid)
		return nil
	}
	d := model.NewDate(t)
	return &d
}

func checkTitle(title string, emptyMsg string, verr *ValidationError) {
	switch {
	case title == "":
		verr.Add(FieldTitle, emptyMsg)
	case !utils.ValidateTaskTitle(title):
		verr.Add(FieldTitle, msgTitleTooLong)
	}
}

func (s *taskService) Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (*model.Task, error) {
	verr := &ValidationError{}

	now := s.now()
	task := &model.Task{
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	checkTitle(task.Title, msgTitleRequired, verr)
	if req.Description != nil {
		task.Description = parseDescription(*req.Description, verr)
	}
	if req.DueDate != nil {
		task.DueDate = s.parseDueDate(*req.DueDate, verr)
	}
	if !verr.Empty() {
		return nil, verr
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		taken, err := tx.Tasks().TitleExists(ctx, userID, task.Title, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Field: FieldTitle, Message: MsgTaskTitleTaken}
		}
		if err := tx.Tasks().Create(ctx, task); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &ConflictError{Field: FieldTitle, Message: MsgTaskTitleTaken}
			}
			return fmt.Errorf("failed to create task in repo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	task, err := s.store.Tasks().FindByIDForOwner(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Update applies the fields present in req. An empty description or due date
// clears the stored value.
func (s *taskService) Update(ctx context.Context, userID, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
	var updated *model.Task
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		existing, err := tx.Tasks().FindByIDForOwner(ctx, taskID, userID)
		if err != nil {
			return fmt.Errorf("failed to find task for update: %w", err)
		}
		if existing == nil {
			return ErrTaskNotFound
		}

		verr := &ValidationError{}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			checkTitle(title, msgTitleEmpty, verr)
			existing.Title = title
		}
		if req.Description != nil {
			existing.Description = parseDescription(*req.Description, verr)
		}
		if req.DueDate != nil {
			existing.DueDate = s.parseDueDate(*req.DueDate, verr)
		}
		if !verr.Empty() {
			return verr
		}

		if req.Title != nil {
			taken, err := tx.Tasks().TitleExists(ctx, userID, existing.Title, existing.ID)
			if err != nil {
				return err
			}
			if taken {
				return &ConflictError{Field: FieldTitle, Message: MsgTaskTitleTaken}
			}
		}
		existing.UpdatedAt = s.now()

		rows, err := tx.Tasks().Update(ctx, existing)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &ConflictError{Field: FieldTitle, Message: MsgTaskTitleTaken}
			}
			return fmt.Errorf("failed to update task in repo: %w", err)
		}
		if rows == 0 {
			return ErrTaskNotFound
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		rows, err := tx.Tasks().Delete(ctx, taskID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete task in repo: %w", err)
		}
		if rows == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}
