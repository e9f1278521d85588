package repository

import (
	"errors"

	"github.com/practicehub/catalog-api/internal/models"
	"gorm.io/gorm"
)

// GormReviewRepository is a GORM implementation of ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// Upsert inserts or overwrites the review keyed on (solution, added_by).
// Each statement runs in its own implicit transaction: a unique-constraint
// failure on the insert must not poison a surrounding transaction, or the
// in-place retry below could never run (Postgres aborts the whole
// transaction on a failed statement). If a concurrent first review slips in
// between lookup and insert, the constraint rejects the insert and the
// write is redone as an update of the winner's row. Two rows for the same
// pair can never exist; the constraint is the authority.
func (r *GormReviewRepository) Upsert(review *models.Review) (bool, error) {
	updated, err := r.overwrite(review)
	if err != nil {
		return false, err
	}
	if updated {
		return false, nil
	}

	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			updated, err := r.overwrite(review)
			if err != nil {
				return false, err
			}
			if updated {
				return false, nil
			}
			// The winning row vanished between conflict and refetch.
			return false, gorm.ErrRecordNotFound
		}
		return false, err
	}
	return true, nil
}

// overwrite applies the new review type to the existing row for the pair,
// reporting false without error when no row exists yet.
func (r *GormReviewRepository) overwrite(review *models.Review) (bool, error) {
	var existing models.Review
	err := r.db.Where("solution_id = ? AND added_by_id = ?", review.SolutionID, review.AddedByID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	existing.ReviewType = review.ReviewType
	if err := r.db.Save(&existing).Error; err != nil {
		return false, err
	}
	*review = existing
	return true, nil
}

// List retrieves reviews, optionally scoped to a solution
func (r *GormReviewRepository) List(solutionID *uint64) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.Preload("AddedBy").Order("created_at DESC")
	if solutionID != nil {
		query = query.Where("solution_id = ?", *solutionID)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindBySolutionAndUser finds a review by its unique key
func (r *GormReviewRepository) FindBySolutionAndUser(solutionID, userID uint64) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("solution_id = ? AND added_by_id = ?", solutionID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
