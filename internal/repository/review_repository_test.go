package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/models"
)

func newReviewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		// Every statement commits on its own, the same shape the store
		// relies on when it recovers from a duplicate-key insert.
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One in-memory database shared by all statements.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Difficulty{},
		&models.ProgrammingLanguage{},
		&models.ProgrammingTask{},
		&models.Solution{},
		&models.Review{},
	))
	return db
}

// A concurrent first review can land between the lookup and the insert. The
// test reproduces that window with a create callback that slips a competing
// row in just before the insert runs, so the insert hits the unique
// constraint and the write must recover as an in-place update of the
// winner's row.
func TestUpsertRecoversFromConcurrentFirstReview(t *testing.T) {
	db := newReviewTestDB(t)
	repo := NewReviewRepository(db)

	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race_insert", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Review); !ok || raced {
			return
		}
		raced = true
		now := time.Now()
		// Exec bypasses the create callbacks, so this does not recurse.
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO reviews (solution_id, added_by_id, review_type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			uint64(1), uint64(2), int(models.ReviewPositive), now, now,
		)
	})
	require.NoError(t, err)

	review := &models.Review{SolutionID: 1, AddedByID: 2, ReviewType: models.ReviewNegative}
	created, err := repo.Upsert(review)
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, raced)
	assert.Equal(t, models.ReviewNegative, review.ReviewType)

	var count int64
	db.Model(&models.Review{}).
		Where("solution_id = ? AND added_by_id = ?", 1, 2).Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.Review
	require.NoError(t, db.Where("solution_id = ? AND added_by_id = ?", 1, 2).First(&stored).Error)
	assert.Equal(t, stored.ID, review.ID)
	assert.Equal(t, models.ReviewNegative, stored.ReviewType)
}

// The ordinary paths: first write inserts, repeat write overwrites the same
// row in place.
func TestUpsertInsertsThenOverwrites(t *testing.T) {
	db := newReviewTestDB(t)
	repo := NewReviewRepository(db)

	first := &models.Review{SolutionID: 5, AddedByID: 9, ReviewType: models.ReviewPositive}
	created, err := repo.Upsert(first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &models.Review{SolutionID: 5, AddedByID: 9, ReviewType: models.ReviewNegative}
	created, err = repo.Upsert(second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ReviewNegative, second.ReviewType)

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
