package dto

import (
	"time"

	"github.com/practicehub/catalog-api/internal/models"
)

// TaskDTO represents a programming task in API responses. The owner is
// exposed as a display name, never as a raw id.
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Resource       string            `json:"resource"`
	Category       uint64            `json:"category"`
	CategoryName   string            `json:"category_name,omitempty"`
	Difficulty     uint64            `json:"difficulty"`
	DifficultyName string            `json:"difficulty_name,omitempty"`
	AddedBy        string            `json:"added_by"`
	Status         models.TaskStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToTaskDTO converts a ProgrammingTask model to TaskDTO
func ToTaskDTO(task models.ProgrammingTask) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Resource:    task.Resource,
		Category:    task.CategoryID,
		Difficulty:  task.DifficultyID,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.AddedBy.ID != 0 {
		dto.AddedBy = task.AddedBy.Username
	}
	if task.Category.ID != 0 {
		dto.CategoryName = task.Category.Name
	}
	if task.Difficulty.ID != 0 {
		dto.DifficultyName = task.Difficulty.Name
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.ProgrammingTask, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
