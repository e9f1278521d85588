package repository

import (
	"github.com/practicehub/catalog-api/internal/models"
	"gorm.io/gorm"
)

// GormSolutionRepository is a GORM implementation of SolutionRepository
type GormSolutionRepository struct {
	db *gorm.DB
}

// NewSolutionRepository creates a new SolutionRepository
func NewSolutionRepository(db *gorm.DB) SolutionRepository {
	return &GormSolutionRepository{db: db}
}

// CreateWithTaskSync inserts the solution and optionally promotes the parent
// task to PUBLIC, both inside one transaction so a partial write is never
// observable.
func (r *GormSolutionRepository) CreateWithTaskSync(solution *models.Solution, promoteTask bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(solution).Error; err != nil {
			return err
		}
		if promoteTask {
			if err := promoteTaskStatus(tx, solution.TaskID); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a solution by ID with optional preloading
func (r *GormSolutionRepository) FindByID(id uint64, preload ...string) (*models.Solution, error) {
	var solution models.Solution
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&solution, id).Error; err != nil {
		return nil, err
	}
	return &solution, nil
}

// List retrieves solutions with visibility scoping, filtering and pagination
func (r *GormSolutionRepository) List(filter SolutionFilter) ([]models.Solution, int64, error) {
	var solutions []models.Solution

	query := r.db.Model(&models.Solution{}).
		Joins("JOIN programming_tasks ON programming_tasks.id = solutions.task_id")

	if filter.Viewer != nil {
		query = query.Where("solutions.is_public = ? OR solutions.user_id = ?", true, *filter.Viewer)
	} else {
		query = query.Where("solutions.is_public = ?", true)
	}

	if filter.TaskID != nil {
		query = query.Where("solutions.task_id = ?", *filter.TaskID)
	}
	if filter.LanguageID != nil {
		query = query.Where("solutions.language_id = ?", *filter.LanguageID)
	}
	if filter.CategoryName != "" {
		query = query.
			Joins("JOIN categories ON categories.id = programming_tasks.category_id").
			Where("LOWER(categories.name) = LOWER(?)", filter.CategoryName)
	}
	if filter.DifficultyName != "" {
		query = query.
			Joins("JOIN difficulties ON difficulties.id = programming_tasks.difficulty_id").
			Where("LOWER(difficulties.name) = LOWER(?)", filter.DifficultyName)
	}
	if filter.TaskName != "" {
		query = query.Where("LOWER(programming_tasks.name) LIKE LOWER(?)", "%"+filter.TaskName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("solutions.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.
		Preload("Task").
		Preload("Task.Category").
		Preload("Task.Difficulty").
		Preload("Language").
		Preload("User").
		Find(&solutions).Error; err != nil {
		return nil, 0, err
	}

	return solutions, total, nil
}

// Update updates a solution
func (r *GormSolutionRepository) Update(solution *models.Solution) error {
	return r.db.Save(solution).Error
}

// Delete removes a solution together with its reviews.
func (r *GormSolutionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("solution_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Solution{}, id).Error
	})
}

// PromoteTask sets the task status to PUBLIC unless it already is. The
// conditional update keeps concurrent publishes from racing: the status can
// only move toward PUBLIC, never back.
func (r *GormSolutionRepository) PromoteTask(taskID uint64) (bool, error) {
	result := r.db.Model(&models.ProgrammingTask{}).
		Where("id = ? AND status <> ?", taskID, models.TaskStatusPublic).
		Update("status", models.TaskStatusPublic)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func promoteTaskStatus(tx *gorm.DB, taskID uint64) error {
	return tx.Model(&models.ProgrammingTask{}).
		Where("id = ? AND status <> ?", taskID, models.TaskStatusPublic).
		Update("status", models.TaskStatusPublic).Error
}

// ReviewTallies returns per-solution positive/negative review counts
func (r *GormSolutionRepository) ReviewTallies(solutionIDs []uint64) (map[uint64]ReviewTally, error) {
	tallies := make(map[uint64]ReviewTally, len(solutionIDs))
	if len(solutionIDs) == 0 {
		return tallies, nil
	}

	var rows []struct {
		SolutionID uint64
		ReviewType models.ReviewType
		Total      int64
	}
	err := r.db.Model(&models.Review{}).
		Select("solution_id, review_type, COUNT(*) AS total").
		Where("solution_id IN ?", solutionIDs).
		Group("solution_id, review_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		tally := tallies[row.SolutionID]
		if row.ReviewType == models.ReviewPositive {
			tally.Positive = row.Total
		} else {
			tally.Negative = row.Total
		}
		tallies[row.SolutionID] = tally
	}
	return tallies, nil
}

// ViewerReviews returns the viewer's own review per solution, if any
func (r *GormSolutionRepository) ViewerReviews(solutionIDs []uint64, viewerID uint64) (map[uint64]models.Review, error) {
	result := make(map[uint64]models.Review, len(solutionIDs))
	if len(solutionIDs) == 0 {
		return result, nil
	}

	var reviews []models.Review
	err := r.db.
		Where("solution_id IN ? AND added_by_id = ?", solutionIDs, viewerID).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	for _, review := range reviews {
		result[review.SolutionID] = review
	}
	return result, nil
}
