package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/cache"
	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/validation"
)

var (
	ErrReferenceNotFound  = errors.New("reference entry not found")
	ErrReferenceNameTaken = errors.New("a reference entry with this name already exists")
	ErrReferenceInUse     = errors.New("reference entry is still referenced by existing content")
)

// ReferenceService manages the staff-administered lookup entities and keeps
// the reference cache coherent across mutations.
type ReferenceService struct {
	refRepo repository.ReferenceRepository
	cache   *cache.ReferenceCache
	logger  *zap.Logger
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(refRepo repository.ReferenceRepository, refCache *cache.ReferenceCache, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{refRepo: refRepo, cache: refCache, logger: logger}
}

// listCached serves a reference list through the cache. Cache failures fall
// back to the store; only store failures surface.
func listCached[T any](s *ReferenceService, ctx context.Context, kind models.ReferenceKind, load func() ([]T, error)) ([]T, error) {
	key, err := s.cache.Key(ctx, kind, "all")
	if err == nil {
		if data, getErr := s.cache.Get(ctx, key); getErr == nil {
			var cached []T
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(getErr, cache.ErrMiss) {
			s.logger.Warn("reference cache read failed",
				zap.String("kind", string(kind)), zap.Error(getErr))
		}
	} else {
		s.logger.Warn("reference cache key lookup failed",
			zap.String("kind", string(kind)), zap.Error(err))
	}

	items, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	if key != "" {
		if data, marshalErr := json.Marshal(items); marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, data); setErr != nil {
				s.logger.Warn("reference cache write failed",
					zap.String("kind", string(kind)), zap.Error(setErr))
			}
		}
	}
	return items, nil
}

// ListCategories returns all categories, cached.
func (s *ReferenceService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return listCached(s, ctx, models.KindCategory, s.refRepo.ListCategories)
}

// ListDifficulties returns all difficulties, cached.
func (s *ReferenceService) ListDifficulties(ctx context.Context) ([]models.Difficulty, error) {
	return listCached(s, ctx, models.KindDifficulty, s.refRepo.ListDifficulties)
}

// ListLanguages returns all programming languages, cached.
func (s *ReferenceService) ListLanguages(ctx context.Context) ([]models.ProgrammingLanguage, error) {
	return listCached(s, ctx, models.KindLanguage, s.refRepo.ListLanguages)
}

func (s *ReferenceService) checkName(name string) (string, error) {
	clean := validation.Sanitize(name)
	if clean == "" {
		errs := validation.FieldErrors{}
		errs.Add("name", "Name is required.")
		return "", errs
	}
	return clean, nil
}

func mapReferenceWriteErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrReferenceNameTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrReferenceNotFound
	case errors.Is(err, repository.ErrReferenceInUse):
		return ErrReferenceInUse
	default:
		return err
	}
}

// CreateCategory inserts a category and invalidates the category cache.
func (s *ReferenceService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: clean, Description: validation.Sanitize(description)}
	if err := s.refRepo.CreateCategory(category); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindCategory)
	return category, nil
}

// UpdateCategory renames a category and invalidates the category cache.
func (s *ReferenceService) UpdateCategory(ctx context.Context, id uint64, name, description string) (*models.Category, error) {
	category, err := s.refRepo.FindCategory(id)
	if err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	category.Name = clean
	category.Description = validation.Sanitize(description)
	if err := s.refRepo.UpdateCategory(category); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindCategory)
	return category, nil
}

// DeleteCategory removes an unreferenced category and invalidates the cache.
func (s *ReferenceService) DeleteCategory(ctx context.Context, id uint64) error {
	if _, err := s.refRepo.FindCategory(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	if err := s.refRepo.DeleteCategory(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindCategory)
	return nil
}

// CreateDifficulty inserts a difficulty and invalidates the difficulty cache.
func (s *ReferenceService) CreateDifficulty(ctx context.Context, name string) (*models.Difficulty, error) {
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	difficulty := &models.Difficulty{Name: clean}
	if err := s.refRepo.CreateDifficulty(difficulty); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindDifficulty)
	return difficulty, nil
}

// UpdateDifficulty renames a difficulty and invalidates the difficulty cache.
func (s *ReferenceService) UpdateDifficulty(ctx context.Context, id uint64, name string) (*models.Difficulty, error) {
	difficulty, err := s.refRepo.FindDifficulty(id)
	if err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	difficulty.Name = clean
	if err := s.refRepo.UpdateDifficulty(difficulty); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindDifficulty)
	return difficulty, nil
}

// DeleteDifficulty removes an unreferenced difficulty and invalidates the cache.
func (s *ReferenceService) DeleteDifficulty(ctx context.Context, id uint64) error {
	if _, err := s.refRepo.FindDifficulty(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	if err := s.refRepo.DeleteDifficulty(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindDifficulty)
	return nil
}

// CreateLanguage inserts a programming language and invalidates the cache.
func (s *ReferenceService) CreateLanguage(ctx context.Context, name string) (*models.ProgrammingLanguage, error) {
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	language := &models.ProgrammingLanguage{Name: clean}
	if err := s.refRepo.CreateLanguage(language); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindLanguage)
	return language, nil
}

// UpdateLanguage renames a programming language and invalidates the cache.
func (s *ReferenceService) UpdateLanguage(ctx context.Context, id uint64, name string) (*models.ProgrammingLanguage, error) {
	language, err := s.refRepo.FindLanguage(id)
	if err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	clean, err := s.checkName(name)
	if err != nil {
		return nil, err
	}
	language.Name = clean
	if err := s.refRepo.UpdateLanguage(language); err != nil {
		return nil, mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindLanguage)
	return language, nil
}

// DeleteLanguage removes an unreferenced language and invalidates the cache.
func (s *ReferenceService) DeleteLanguage(ctx context.Context, id uint64) error {
	if _, err := s.refRepo.FindLanguage(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	if err := s.refRepo.DeleteLanguage(id); err != nil {
		return mapReferenceWriteErr(err)
	}
	s.cache.Invalidate(ctx, models.KindLanguage)
	return nil
}
