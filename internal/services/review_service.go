package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/policy"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/validation"
)

var (
	// ErrSelfReviewForbidden rejects a review on the reviewer's own solution.
	ErrSelfReviewForbidden = errors.New("cannot review your own solution")
)

// ReviewService handles review business logic
type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	solutionRepo repository.SolutionRepository
	logger       *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	solutionRepo repository.SolutionRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		solutionRepo: solutionRepo,
		logger:       logger,
	}
}

// CreateReview upserts the actor's review of a solution. At most one review
// per (solution, reviewer) pair ever exists: a repeat call overwrites the
// review type on the same row. The created flag is part of the contract and
// drives the 201-versus-200 choice at the HTTP boundary.
func (s *ReviewService) CreateReview(actor *policy.Actor, solutionID uint64, reviewType models.ReviewType) (*models.Review, bool, error) {
	if !reviewType.Valid() {
		errs := validation.FieldErrors{}
		errs.Add("review_type", "Review type must be 0 (negative) or 1 (positive).")
		return nil, false, errs
	}

	solution, err := s.solutionRepo.FindByID(solutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSolutionNotFound
		}
		return nil, false, fmt.Errorf("failed to find solution: %w", err)
	}

	if solution.UserID == actor.ID {
		s.logger.Warn("self-review rejected",
			zap.Uint64("user_id", actor.ID),
			zap.Uint64("solution_id", solutionID))
		return nil, false, ErrSelfReviewForbidden
	}

	review := &models.Review{
		SolutionID: solutionID,
		AddedByID:  actor.ID,
		ReviewType: reviewType,
	}

	created, err := s.reviewRepo.Upsert(review)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save review: %w", err)
	}

	action := "updated"
	if created {
		action = "created"
	}
	s.logger.Info("review "+action,
		zap.Uint64("review_id", review.ID),
		zap.Uint64("solution_id", solutionID),
		zap.Uint64("user_id", actor.ID))

	return review, created, nil
}

// ListReviews returns reviews, optionally filtered by solution
func (s *ReviewService) ListReviews(solutionID *uint64) ([]models.Review, error) {
	reviews, err := s.reviewRepo.List(solutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
