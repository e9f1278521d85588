package repository

import (
	"github.com/practicehub/catalog-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.ProgrammingTask) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.ProgrammingTask, error) {
	var task models.ProgrammingTask
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with visibility scoping, filtering and pagination.
// Visibility is a single WHERE clause, so a viewer's own public task cannot
// appear twice.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.ProgrammingTask, int64, error) {
	var tasks []models.ProgrammingTask

	query := r.db.Model(&models.ProgrammingTask{})

	if filter.Viewer != nil {
		query = query.Where("programming_tasks.status = ? OR programming_tasks.added_by_id = ?",
			models.TaskStatusPublic, *filter.Viewer)
	} else {
		query = query.Where("programming_tasks.status = ?", models.TaskStatusPublic)
	}

	if filter.Status != nil {
		query = query.Where("programming_tasks.status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("programming_tasks.category_id = ?", *filter.CategoryID)
	}
	if filter.DifficultyID != nil {
		query = query.Where("programming_tasks.difficulty_id = ?", *filter.DifficultyID)
	}
	if filter.AddedByID != nil {
		query = query.Where("programming_tasks.added_by_id = ?", *filter.AddedByID)
	}
	if filter.SolvedByID != nil {
		solvedSubQuery := r.db.Model(&models.Solution{}).
			Select("1").
			Where("solutions.task_id = programming_tasks.id").
			Where("solutions.user_id = ?", *filter.SolvedByID)
		query = query.Where("EXISTS (?)", solvedSubQuery)
	}
	if filter.Search != "" {
		query = query.Where("programming_tasks.name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("programming_tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.
		Preload("Category").
		Preload("Difficulty").
		Preload("AddedBy").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.ProgrammingTask) error {
	return r.db.Save(task).Error
}

// Delete removes a task together with its solutions and their reviews.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		solutionIDs := tx.Model(&models.Solution{}).
			Select("id").
			Where("task_id = ?", id)

		if err := tx.Where("solution_id IN (?)", solutionIDs).
			Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).
			Delete(&models.Solution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ProgrammingTask{}, id).Error
	})
}

// ExistsByNameForUser reports whether the owner already has a task with the name
func (r *GormTaskRepository) ExistsByNameForUser(name string, ownerID, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.ProgrammingTask{}).
		Where("name = ? AND added_by_id = ?", name, ownerID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
