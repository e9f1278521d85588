package dto

import (
	"time"

	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/services"
)

// UserReviewDTO is the caller's own review of a solution, if any.
type UserReviewDTO struct {
	ID         uint64            `json:"id"`
	ReviewType models.ReviewType `json:"review_type"`
}

// SolutionDTO represents a solution in API responses, including the
// computed review counts and the caller's own review.
type SolutionDTO struct {
	ID                   uint64         `json:"id"`
	Task                 uint64         `json:"task"`
	TaskDetail           *TaskDTO       `json:"task_detail,omitempty"`
	Code                 string         `json:"code"`
	Language             uint64         `json:"language"`
	LanguageName         string         `json:"language_name,omitempty"`
	Explanation          string         `json:"explanation"`
	User                 string         `json:"user"`
	IsPublic             bool           `json:"is_public"`
	PublishedAt          *time.Time     `json:"published_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	PositiveReviewsCount int64          `json:"positive_reviews_count"`
	NegativeReviewsCount int64          `json:"negative_reviews_count"`
	UserReview           *UserReviewDTO `json:"user_review"`
}

// SolutionListResponse represents a paginated list of solutions
type SolutionListResponse struct {
	Solutions  []SolutionDTO `json:"solutions"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

// ToSolutionDTO converts an enriched solution to SolutionDTO
func ToSolutionDTO(item services.SolutionWithMeta) SolutionDTO {
	solution := item.Solution
	dto := SolutionDTO{
		ID:                   solution.ID,
		Task:                 solution.TaskID,
		Code:                 solution.Code,
		Language:             solution.LanguageID,
		Explanation:          solution.Explanation,
		IsPublic:             solution.IsPublic,
		PublishedAt:          solution.PublishedAt,
		CreatedAt:            solution.CreatedAt,
		UpdatedAt:            solution.UpdatedAt,
		PositiveReviewsCount: item.Tally.Positive,
		NegativeReviewsCount: item.Tally.Negative,
	}

	if solution.User.ID != 0 {
		dto.User = solution.User.Username
	}
	if solution.Language.ID != 0 {
		dto.LanguageName = solution.Language.Name
	}
	if solution.Task.ID != 0 {
		task := ToTaskDTO(solution.Task)
		dto.TaskDetail = &task
	}
	if item.ViewerReview != nil {
		dto.UserReview = &UserReviewDTO{
			ID:         item.ViewerReview.ID,
			ReviewType: item.ViewerReview.ReviewType,
		}
	}

	return dto
}

// ToSolutionListResponse converts enriched solutions to SolutionListResponse
func ToSolutionListResponse(items []services.SolutionWithMeta, page, pageSize int, totalCount int64) SolutionListResponse {
	dtos := make([]SolutionDTO, len(items))
	for i, item := range items {
		dtos[i] = ToSolutionDTO(item)
	}
	return SolutionListResponse{
		Solutions:  dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
