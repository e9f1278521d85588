package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/policy"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/validation"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("only the task owner can perform this action")
)

// TaskService handles programming task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	refRepo  repository.ReferenceRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, refRepo repository.ReferenceRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, refRepo: refRepo}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Actor        *policy.Actor
	Status       *models.TaskStatus
	CategoryID   *uint64
	DifficultyID *uint64
	AddedByID    *uint64
	SolvedByID   *uint64
	Search       string
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name         string
	Description  string
	Resource     string
	CategoryID   uint64
	DifficultyID uint64
}

// UpdateTaskInput represents input for a partial task update
type UpdateTaskInput struct {
	Name         *string
	Description  *string
	Resource     *string
	CategoryID   *uint64
	DifficultyID *uint64
}

// ListTasks returns tasks visible to the actor, filtered and paginated
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.ProgrammingTask, int64, error) {
	filter := repository.TaskFilter{
		Status:       input.Status,
		CategoryID:   input.CategoryID,
		DifficultyID: input.DifficultyID,
		AddedByID:    input.AddedByID,
		SolvedByID:   input.SolvedByID,
		Search:       input.Search,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}
	if input.Actor != nil {
		filter.Viewer = &input.Actor.ID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task the actor may see. Invisible tasks read as absent
// rather than forbidden, so private work is not discoverable by id.
func (s *TaskService) GetTask(taskID uint64, actor *policy.Actor) (*models.ProgrammingTask, error) {
	task, err := s.taskRepo.FindByID(taskID, "Category", "Difficulty", "AddedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !policy.CanViewTask(actor, task) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask validates, sanitizes and persists a new task owned by the actor.
// Tasks always start PRIVATE; only publishing a solution promotes them.
func (s *TaskService) CreateTask(actor *policy.Actor, input CreateTaskInput) (*models.ProgrammingTask, error) {
	errs := validation.FieldErrors{}
	validation.CheckTaskName(errs, input.Name)
	validation.CheckDescription(errs, input.Description)
	validation.CheckResourceURL(errs, input.Resource)

	if _, err := s.refRepo.FindCategory(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("category", "Category does not exist.")
		} else {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
	}
	if _, err := s.refRepo.FindDifficulty(input.DifficultyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("difficulty", "Difficulty does not exist.")
		} else {
			return nil, fmt.Errorf("failed to check difficulty: %w", err)
		}
	}

	name := validation.Sanitize(input.Name)
	if _, taken := errs["name"]; !taken && name != "" {
		exists, err := s.taskRepo.ExistsByNameForUser(name, actor.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to check task name: %w", err)
		}
		if exists {
			errs.Add("name", "You already have a task with this name.")
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	task := &models.ProgrammingTask{
		Name:         name,
		Description:  validation.Sanitize(input.Description),
		Resource:     validation.Sanitize(input.Resource),
		CategoryID:   input.CategoryID,
		DifficultyID: input.DifficultyID,
		AddedByID:    actor.ID,
		Status:       models.TaskStatusPrivate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Category", "Difficulty", "AddedBy")
}

// UpdateTask applies a partial update after the ownership check. Ownership,
// not visibility, gates writes: a non-owner gets a forbidden error even for
// a task they can read.
func (s *TaskService) UpdateTask(taskID uint64, actor *policy.Actor, input UpdateTaskInput) (*models.ProgrammingTask, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanModifyTask(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	errs := validation.FieldErrors{}
	if input.Name != nil {
		validation.CheckTaskName(errs, *input.Name)
	}
	if input.Description != nil {
		validation.CheckDescription(errs, *input.Description)
	}
	if input.Resource != nil {
		validation.CheckResourceURL(errs, *input.Resource)
	}
	if input.CategoryID != nil {
		if _, err := s.refRepo.FindCategory(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Add("category", "Category does not exist.")
			} else {
				return nil, fmt.Errorf("failed to check category: %w", err)
			}
		}
	}
	if input.DifficultyID != nil {
		if _, err := s.refRepo.FindDifficulty(*input.DifficultyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Add("difficulty", "Difficulty does not exist.")
			} else {
				return nil, fmt.Errorf("failed to check difficulty: %w", err)
			}
		}
	}

	if input.Name != nil {
		if _, taken := errs["name"]; !taken {
			name := validation.Sanitize(*input.Name)
			if name != task.Name {
				exists, err := s.taskRepo.ExistsByNameForUser(name, actor.ID, task.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to check task name: %w", err)
				}
				if exists {
					errs.Add("name", "You already have a task with this name.")
				}
			}
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		task.Name = validation.Sanitize(*input.Name)
	}
	if input.Description != nil {
		task.Description = validation.Sanitize(*input.Description)
	}
	if input.Resource != nil {
		task.Resource = validation.Sanitize(*input.Resource)
	}
	if input.CategoryID != nil {
		task.CategoryID = *input.CategoryID
	}
	if input.DifficultyID != nil {
		task.DifficultyID = *input.DifficultyID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Category", "Difficulty", "AddedBy")
}

// DeleteTask removes a task and its solutions if the actor owns it
func (s *TaskService) DeleteTask(taskID uint64, actor *policy.Actor) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanModifyTask(actor, task) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
