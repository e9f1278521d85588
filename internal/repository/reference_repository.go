package repository

import (
	"errors"

	"github.com/practicehub/catalog-api/internal/models"
	"gorm.io/gorm"
)

// ErrReferenceInUse is returned when deleting a reference row that tasks or
// solutions still point at.
var ErrReferenceInUse = errors.New("reference repository: row is still referenced")

// GormReferenceRepository is a GORM implementation of ReferenceRepository
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormReferenceRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *GormReferenceRepository) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *GormReferenceRepository) DeleteCategory(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.ProgrammingTask{}).
			Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrReferenceInUse
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

func (r *GormReferenceRepository) FindCategory(id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormReferenceRepository) ListDifficulties() ([]models.Difficulty, error) {
	var difficulties []models.Difficulty
	if err := r.db.Order("name").Find(&difficulties).Error; err != nil {
		return nil, err
	}
	return difficulties, nil
}

func (r *GormReferenceRepository) CreateDifficulty(difficulty *models.Difficulty) error {
	return r.db.Create(difficulty).Error
}

func (r *GormReferenceRepository) UpdateDifficulty(difficulty *models.Difficulty) error {
	return r.db.Save(difficulty).Error
}

func (r *GormReferenceRepository) DeleteDifficulty(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.ProgrammingTask{}).
			Where("difficulty_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrReferenceInUse
		}
		return tx.Delete(&models.Difficulty{}, id).Error
	})
}

func (r *GormReferenceRepository) FindDifficulty(id uint64) (*models.Difficulty, error) {
	var difficulty models.Difficulty
	if err := r.db.First(&difficulty, id).Error; err != nil {
		return nil, err
	}
	return &difficulty, nil
}

func (r *GormReferenceRepository) ListLanguages() ([]models.ProgrammingLanguage, error) {
	var languages []models.ProgrammingLanguage
	if err := r.db.Order("name").Find(&languages).Error; err != nil {
		return nil, err
	}
	return languages, nil
}

func (r *GormReferenceRepository) CreateLanguage(language *models.ProgrammingLanguage) error {
	return r.db.Create(language).Error
}

func (r *GormReferenceRepository) UpdateLanguage(language *models.ProgrammingLanguage) error {
	return r.db.Save(language).Error
}

func (r *GormReferenceRepository) DeleteLanguage(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Solution{}).
			Where("language_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrReferenceInUse
		}
		return tx.Delete(&models.ProgrammingLanguage{}, id).Error
	})
}

func (r *GormReferenceRepository) FindLanguage(id uint64) (*models.ProgrammingLanguage, error) {
	var language models.ProgrammingLanguage
	if err := r.db.First(&language, id).Error; err != nil {
		return nil, err
	}
	return &language, nil
}
