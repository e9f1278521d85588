package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/policy"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/validation"
)

var (
	ErrSolutionNotFound         = errors.New("solution not found")
	ErrSolutionPermissionDenied = errors.New("only the solution owner can perform this action")
	ErrInvalidReference         = errors.New("referenced task not found")
)

// SolutionService owns the publish/visibility state machine coupling
// solutions and their parent tasks.
type SolutionService struct {
	solutionRepo repository.SolutionRepository
	taskRepo     repository.TaskRepository
	refRepo      repository.ReferenceRepository
	logger       *zap.Logger
}

// NewSolutionService creates a new SolutionService
func NewSolutionService(
	solutionRepo repository.SolutionRepository,
	taskRepo repository.TaskRepository,
	refRepo repository.ReferenceRepository,
	logger *zap.Logger,
) *SolutionService {
	return &SolutionService{
		solutionRepo: solutionRepo,
		taskRepo:     taskRepo,
		refRepo:      refRepo,
		logger:       logger,
	}
}

// SolutionWithMeta bundles a solution with its computed review data.
type SolutionWithMeta struct {
	Solution     models.Solution
	Tally        repository.ReviewTally
	ViewerReview *models.Review
}

// CreateSolutionInput represents input for creating a solution
type CreateSolutionInput struct {
	TaskID      uint64
	Code        string
	LanguageID  uint64
	Explanation string
	IsPublic    bool
}

// UpdateSolutionInput represents input for a partial solution update.
// Publication state is not part of it; only Publish moves that.
type UpdateSolutionInput struct {
	Code        *string
	LanguageID  *uint64
	Explanation *string
}

// ListSolutionsInput represents filters for listing solutions
type ListSolutionsInput struct {
	Actor          *policy.Actor
	TaskID         *uint64
	LanguageID     *uint64
	CategoryName   string
	DifficultyName string
	TaskName       string
	Page           int
	PageSize       int
}

// ListSolutions returns solutions visible to the actor with review metadata
func (s *SolutionService) ListSolutions(input ListSolutionsInput) ([]SolutionWithMeta, int64, error) {
	filter := repository.SolutionFilter{
		TaskID:         input.TaskID,
		LanguageID:     input.LanguageID,
		CategoryName:   input.CategoryName,
		DifficultyName: input.DifficultyName,
		TaskName:       input.TaskName,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}
	if input.Actor != nil {
		filter.Viewer = &input.Actor.ID
	}

	solutions, total, err := s.solutionRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list solutions: %w", err)
	}

	enriched, err := s.withMeta(solutions, input.Actor)
	if err != nil {
		return nil, 0, err
	}
	return enriched, total, nil
}

// GetSolution returns a solution the actor may see, with review metadata
func (s *SolutionService) GetSolution(solutionID uint64, actor *policy.Actor) (*SolutionWithMeta, error) {
	solution, err := s.findVisible(solutionID, actor)
	if err != nil {
		return nil, err
	}

	enriched, err := s.withMeta([]models.Solution{*solution}, actor)
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// CreateSolution validates and persists a new solution. When the solution is
// public the parent task is promoted to PUBLIC inside the same transaction,
// so a partially applied create is never observable.
func (s *SolutionService) CreateSolution(actor *policy.Actor, input CreateSolutionInput) (*SolutionWithMeta, error) {
	if _, err := s.taskRepo.FindByID(input.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	errs := validation.FieldErrors{}
	validation.CheckCode(errs, input.Code)
	validation.CheckExplanation(errs, input.Explanation)
	if _, err := s.refRepo.FindLanguage(input.LanguageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("language", "Programming language does not exist.")
		} else {
			return nil, fmt.Errorf("failed to check language: %w", err)
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	solution := &models.Solution{
		TaskID:      input.TaskID,
		Code:        validation.Sanitize(input.Code),
		LanguageID:  input.LanguageID,
		Explanation: validation.Sanitize(input.Explanation),
		UserID:      actor.ID,
		IsPublic:    input.IsPublic,
	}
	if input.IsPublic {
		now := time.Now()
		solution.PublishedAt = &now
	}

	if err := s.solutionRepo.CreateWithTaskSync(solution, input.IsPublic); err != nil {
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}

	if input.IsPublic {
		s.logger.Info("task promoted to public on solution create",
			zap.Uint64("task_id", input.TaskID),
			zap.Uint64("solution_id", solution.ID))
	}

	created, err := s.solutionRepo.FindByID(solution.ID,
		"Task", "Task.Category", "Task.Difficulty", "Language", "User")
	if err != nil {
		return nil, fmt.Errorf("failed to reload solution: %w", err)
	}
	return &SolutionWithMeta{Solution: *created}, nil
}

// UpdateSolution applies a partial update after the ownership check
func (s *SolutionService) UpdateSolution(solutionID uint64, actor *policy.Actor, input UpdateSolutionInput) (*SolutionWithMeta, error) {
	solution, err := s.findOwned(solutionID, actor)
	if err != nil {
		return nil, err
	}

	errs := validation.FieldErrors{}
	if input.Code != nil {
		validation.CheckCode(errs, *input.Code)
	}
	if input.Explanation != nil {
		validation.CheckExplanation(errs, *input.Explanation)
	}
	if input.LanguageID != nil {
		if _, err := s.refRepo.FindLanguage(*input.LanguageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Add("language", "Programming language does not exist.")
			} else {
				return nil, fmt.Errorf("failed to check language: %w", err)
			}
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if input.Code != nil {
		solution.Code = validation.Sanitize(*input.Code)
	}
	if input.Explanation != nil {
		solution.Explanation = validation.Sanitize(*input.Explanation)
	}
	if input.LanguageID != nil {
		solution.LanguageID = *input.LanguageID
	}

	if err := s.solutionRepo.Update(solution); err != nil {
		return nil, fmt.Errorf("failed to update solution: %w", err)
	}

	return s.GetSolution(solution.ID, actor)
}

// DeleteSolution removes a solution and its reviews if the actor owns it
func (s *SolutionService) DeleteSolution(solutionID uint64, actor *policy.Actor) error {
	solution, err := s.findOwned(solutionID, actor)
	if err != nil {
		return err
	}
	if err := s.solutionRepo.Delete(solution.ID); err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	return nil
}

// Publish moves a solution's publication state.
//
// Publishing stamps published_at on the first transition only, then
// unconditionally ensures the parent task is PUBLIC; the promotion is an
// idempotent conditional update, safe under concurrent publishes and
// retries. Unpublishing clears the flag but leaves published_at and the
// task status untouched: a task once shown publicly stays discoverable.
func (s *SolutionService) Publish(solutionID uint64, actor *policy.Actor, makePublic bool) (*SolutionWithMeta, error) {
	solution, err := s.findOwned(solutionID, actor)
	if err != nil {
		return nil, err
	}

	if makePublic {
		if !solution.IsPublic {
			solution.IsPublic = true
			if solution.PublishedAt == nil {
				now := time.Now()
				solution.PublishedAt = &now
			}
			if err := s.solutionRepo.Update(solution); err != nil {
				return nil, fmt.Errorf("failed to publish solution: %w", err)
			}
			s.logger.Info("solution published", zap.Uint64("solution_id", solution.ID))
		}

		promoted, err := s.solutionRepo.PromoteTask(solution.TaskID)
		if err != nil {
			return nil, fmt.Errorf("failed to sync task status: %w", err)
		}
		if promoted {
			s.logger.Info("task promoted to public",
				zap.Uint64("task_id", solution.TaskID),
				zap.Uint64("solution_id", solution.ID))
		}
		return s.GetSolution(solution.ID, actor)
	}

	if solution.IsPublic {
		solution.IsPublic = false
		if err := s.solutionRepo.Update(solution); err != nil {
			return nil, fmt.Errorf("failed to unpublish solution: %w", err)
		}
		s.logger.Info("solution unpublished", zap.Uint64("solution_id", solution.ID))
	}
	return s.GetSolution(solution.ID, actor)
}

// findVisible fetches a solution and applies the read policy, reporting
// invisible rows as absent.
func (s *SolutionService) findVisible(solutionID uint64, actor *policy.Actor) (*models.Solution, error) {
	solution, err := s.solutionRepo.FindByID(solutionID,
		"Task", "Task.Category", "Task.Difficulty", "Language", "User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to find solution: %w", err)
	}
	if !policy.CanViewSolution(actor, solution) {
		return nil, ErrSolutionNotFound
	}
	return solution, nil
}

// findOwned fetches a solution by id and applies the write policy. The
// ownership check runs after the fetch: non-owners are forbidden, not told
// the row does not exist.
func (s *SolutionService) findOwned(solutionID uint64, actor *policy.Actor) (*models.Solution, error) {
	solution, err := s.solutionRepo.FindByID(solutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to find solution: %w", err)
	}
	if !policy.CanModifySolution(actor, solution) {
		return nil, ErrSolutionPermissionDenied
	}
	return solution, nil
}

// withMeta attaches review tallies and the viewer's own review to solutions.
func (s *SolutionService) withMeta(solutions []models.Solution, actor *policy.Actor) ([]SolutionWithMeta, error) {
	ids := make([]uint64, len(solutions))
	for i, solution := range solutions {
		ids[i] = solution.ID
	}

	tallies, err := s.solutionRepo.ReviewTallies(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var viewerReviews map[uint64]models.Review
	if actor != nil {
		viewerReviews, err = s.solutionRepo.ViewerReviews(ids, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer reviews: %w", err)
		}
	}

	result := make([]SolutionWithMeta, len(solutions))
	for i, solution := range solutions {
		item := SolutionWithMeta{
			Solution: solution,
			Tally:    tallies[solution.ID],
		}
		if review, ok := viewerReviews[solution.ID]; ok {
			item.ViewerReview = &review
		}
		result[i] = item
	}
	return result, nil
}
