package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/dto"
	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/services"
	"github.com/practicehub/catalog-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func queryUint(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// ListTasks returns tasks visible to the requester, filtered and paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		Actor:  middleware.GetActor(c),
		Search: c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	var ok bool
	if input.CategoryID, ok = queryUint(c, "category"); !ok {
		return
	}
	if input.DifficultyID, ok = queryUint(c, "difficulty"); !ok {
		return
	}
	if input.AddedByID, ok = queryUint(c, "added_by"); !ok {
		return
	}
	if input.SolvedByID, ok = queryUint(c, "solved_by"); !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	input.Page = pagination.Page
	input.PageSize = pagination.PageSize

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Page, input.PageSize, total))
}

// GetTask returns a single task by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id, middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new private task owned by the requester.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Resource     string `json:"resource"`
		CategoryID   uint64 `json:"category"`
		DifficultyID uint64 `json:"difficulty"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(middleware.GetActor(c), services.CreateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Resource:     req.Resource,
		CategoryID:   req.CategoryID,
		DifficultyID: req.DifficultyID,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task owned by the requester.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Resource     *string `json:"resource"`
		CategoryID   *uint64 `json:"category"`
		DifficultyID *uint64 `json:"difficulty"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(id, middleware.GetActor(c), services.UpdateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Resource:     req.Resource,
		CategoryID:   req.CategoryID,
		DifficultyID: req.DifficultyID,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task owned by the requester.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id, middleware.GetActor(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
