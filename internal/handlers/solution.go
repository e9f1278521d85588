package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/dto"
	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/services"
	"github.com/practicehub/catalog-api/internal/utils"
)

// SolutionHandler coordinates solution-related HTTP handlers.
type SolutionHandler struct {
	solutionService *services.SolutionService
	logger          *zap.Logger
}

// NewSolutionHandler creates a new SolutionHandler.
func NewSolutionHandler(solutionService *services.SolutionService, logger *zap.Logger) *SolutionHandler {
	return &SolutionHandler{solutionService: solutionService, logger: logger}
}

// ListSolutions returns solutions visible to the requester, filtered and paginated.
func (h *SolutionHandler) ListSolutions(c *gin.Context) {
	input := services.ListSolutionsInput{
		Actor:          middleware.GetActor(c),
		CategoryName:   c.Query("category"),
		DifficultyName: c.Query("difficulty"),
		TaskName:       c.Query("task_name"),
	}

	var ok bool
	if input.TaskID, ok = queryUint(c, "task"); !ok {
		return
	}
	if input.LanguageID, ok = queryUint(c, "language"); !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	input.Page = pagination.Page
	input.PageSize = pagination.PageSize

	items, total, err := h.solutionService.ListSolutions(input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionListResponse(items, input.Page, input.PageSize, total))
}

// GetSolution returns a single solution by id.
func (h *SolutionHandler) GetSolution(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.solutionService.GetSolution(id, middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*item))
}

// CreateSolution creates a new solution for a task.
func (h *SolutionHandler) CreateSolution(c *gin.Context) {
	type CreateSolutionRequest struct {
		TaskID      uint64 `json:"task"`
		Code        string `json:"code"`
		LanguageID  uint64 `json:"language"`
		Explanation string `json:"explanation"`
		IsPublic    bool   `json:"is_public"`
	}

	var req CreateSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.solutionService.CreateSolution(middleware.GetActor(c), services.CreateSolutionInput{
		TaskID:      req.TaskID,
		Code:        req.Code,
		LanguageID:  req.LanguageID,
		Explanation: req.Explanation,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSolutionDTO(*item))
}

// UpdateSolution applies a partial update to a solution owned by the requester.
func (h *SolutionHandler) UpdateSolution(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateSolutionRequest struct {
		Code        *string `json:"code"`
		LanguageID  *uint64 `json:"language"`
		Explanation *string `json:"explanation"`
	}

	var req UpdateSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.solutionService.UpdateSolution(id, middleware.GetActor(c), services.UpdateSolutionInput{
		Code:        req.Code,
		LanguageID:  req.LanguageID,
		Explanation: req.Explanation,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*item))
}

// DeleteSolution removes a solution owned by the requester.
func (h *SolutionHandler) DeleteSolution(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.solutionService.DeleteSolution(id, middleware.GetActor(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishSolution toggles the publication state of a solution owned by the
// requester. Publishing also promotes the parent task to PUBLIC.
func (h *SolutionHandler) PublishSolution(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type PublishRequest struct {
		IsPublic *bool `json:"is_public" binding:"required"`
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.solutionService.Publish(id, middleware.GetActor(c), *req.IsPublic)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*item))
}
