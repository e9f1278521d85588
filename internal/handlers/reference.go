package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/services"
)

// ReferenceHandler serves the category, difficulty and language catalogs.
// Reads are public and cached; writes are staff-only.
type ReferenceHandler struct {
	refService *services.ReferenceService
	logger     *zap.Logger
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refService *services.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{refService: refService, logger: logger}
}

type referenceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func bindReference(c *gin.Context) (*referenceRequest, bool) {
	var req referenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return &req, true
}

// ListCategories returns all categories.
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	items, err := h.refService.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateCategory adds a category.
func (h *ReferenceHandler) CreateCategory(c *gin.Context) {
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateCategory renames a category.
func (h *ReferenceHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.UpdateCategory(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCategory removes an unused category.
func (h *ReferenceHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.refService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDifficulties returns all difficulty levels.
func (h *ReferenceHandler) ListDifficulties(c *gin.Context) {
	items, err := h.refService.ListDifficulties(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateDifficulty adds a difficulty level.
func (h *ReferenceHandler) CreateDifficulty(c *gin.Context) {
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.CreateDifficulty(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateDifficulty renames a difficulty level.
func (h *ReferenceHandler) UpdateDifficulty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.UpdateDifficulty(c.Request.Context(), id, req.Name)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteDifficulty removes an unused difficulty level.
func (h *ReferenceHandler) DeleteDifficulty(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.refService.DeleteDifficulty(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLanguages returns all programming languages.
func (h *ReferenceHandler) ListLanguages(c *gin.Context) {
	items, err := h.refService.ListLanguages(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateLanguage adds a programming language.
func (h *ReferenceHandler) CreateLanguage(c *gin.Context) {
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.CreateLanguage(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateLanguage renames a programming language.
func (h *ReferenceHandler) UpdateLanguage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	req, ok := bindReference(c)
	if !ok {
		return
	}

	item, err := h.refService.UpdateLanguage(c.Request.Context(), id, req.Name)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteLanguage removes an unused programming language.
func (h *ReferenceHandler) DeleteLanguage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.refService.DeleteLanguage(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
