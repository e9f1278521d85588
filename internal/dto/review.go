package dto

import (
	"time"

	"github.com/practicehub/catalog-api/internal/models"
)

// ReviewDTO represents a review in API responses
type ReviewDTO struct {
	ID         uint64            `json:"id"`
	Solution   uint64            `json:"solution"`
	ReviewType models.ReviewType `json:"review_type"`
	AddedBy    string            `json:"added_by"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ToReviewDTO converts a Review model to ReviewDTO
func ToReviewDTO(review models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:         review.ID,
		Solution:   review.SolutionID,
		ReviewType: review.ReviewType,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
	if review.AddedBy.ID != 0 {
		dto.AddedBy = review.AddedBy.Username
	}
	return dto
}

// ToReviewDTOs converts a slice of reviews
func ToReviewDTOs(reviews []models.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(reviews))
	for i, review := range reviews {
		dtos[i] = ToReviewDTO(review)
	}
	return dtos
}
