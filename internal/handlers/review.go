package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/dto"
	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/services"
)

// ReviewHandler coordinates review-related HTTP handlers.
type ReviewHandler struct {
	reviewService *services.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

// CreateReview records the requester's verdict on a solution. A repeat
// submission for the same solution overwrites the earlier verdict and
// responds 200 instead of 201.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	type CreateReviewRequest struct {
		SolutionID uint64             `json:"solution"`
		ReviewType *models.ReviewType `json:"review_type" binding:"required"`
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	review, created, err := h.reviewService.CreateReview(middleware.GetActor(c), req.SolutionID, *req.ReviewType)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToReviewDTO(*review))
}

// ListReviews returns reviews, optionally filtered by solution.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	solutionID, ok := queryUint(c, "solution")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListReviews(solutionID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReviewDTOs(reviews))
}
