package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/policy"
	"github.com/practicehub/catalog-api/internal/repository"
)

// ReviewServiceTestSuite defines the test suite for ReviewService
type ReviewServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ReviewService

	author   *models.User
	reviewer *models.User
	solution *models.Solution
}

// SetupTest runs before each test
func (suite *ReviewServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Difficulty{},
		&models.ProgrammingLanguage{},
		&models.ProgrammingTask{},
		&models.Solution{},
		&models.Review{},
	)
	suite.Require().NoError(err)

	suite.service = NewReviewService(
		repository.NewReviewRepository(suite.db),
		repository.NewSolutionRepository(suite.db),
		zap.NewNop(),
	)

	suite.author = &models.User{Username: "author", PasswordHash: "x"}
	suite.reviewer = &models.User{Username: "reviewer", PasswordHash: "x"}
	category := &models.Category{Name: "Algorithms"}
	diff := &models.Difficulty{Name: "Easy"}
	lang := &models.ProgrammingLanguage{Name: "Go"}
	suite.Require().NoError(suite.db.Create(suite.author).Error)
	suite.Require().NoError(suite.db.Create(suite.reviewer).Error)
	suite.Require().NoError(suite.db.Create(category).Error)
	suite.Require().NoError(suite.db.Create(diff).Error)
	suite.Require().NoError(suite.db.Create(lang).Error)

	task := &models.ProgrammingTask{
		Name:         "Two Sum",
		Description:  "desc",
		CategoryID:   category.ID,
		DifficultyID: diff.ID,
		AddedByID:    suite.author.ID,
		Status:       models.TaskStatusPublic,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	suite.solution = &models.Solution{
		TaskID:     task.ID,
		Code:       "func main() {}",
		LanguageID: lang.ID,
		UserID:     suite.author.ID,
		IsPublic:   true,
	}
	suite.Require().NoError(suite.db.Create(suite.solution).Error)
}

// TearDownTest runs after each test
func (suite *ReviewServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ReviewServiceTestSuite) actorFor(user *models.User) *policy.Actor {
	return &policy.Actor{ID: user.ID, IsStaff: user.IsStaff}
}

// TestCreateReview_FirstIsCreated the first verdict inserts a new row
func (suite *ReviewServiceTestSuite) TestCreateReview_FirstIsCreated() {
	review, created, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), suite.solution.ID, models.ReviewPositive)
	suite.Require().NoError(err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), models.ReviewPositive, review.ReviewType)
	assert.Equal(suite.T(), suite.reviewer.ID, review.AddedByID)
}

// TestCreateReview_RepeatOverwrites a repeat verdict updates the same row
func (suite *ReviewServiceTestSuite) TestCreateReview_RepeatOverwrites() {
	first, created, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), suite.solution.ID, models.ReviewPositive)
	suite.Require().NoError(err)
	suite.Require().True(created)

	second, created, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), suite.solution.ID, models.ReviewNegative)
	suite.Require().NoError(err)
	assert.False(suite.T(), created)
	assert.Equal(suite.T(), first.ID, second.ID)
	assert.Equal(suite.T(), models.ReviewNegative, second.ReviewType)

	var count int64
	suite.db.Model(&models.Review{}).
		Where("solution_id = ? AND added_by_id = ?", suite.solution.ID, suite.reviewer.ID).
		Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

// TestCreateReview_SelfReviewForbidden authors cannot review their own work
func (suite *ReviewServiceTestSuite) TestCreateReview_SelfReviewForbidden() {
	_, _, err := suite.service.CreateReview(
		suite.actorFor(suite.author), suite.solution.ID, models.ReviewPositive)
	assert.ErrorIs(suite.T(), err, ErrSelfReviewForbidden)
}

// TestCreateReview_UnknownSolution
func (suite *ReviewServiceTestSuite) TestCreateReview_UnknownSolution() {
	_, _, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), 9999, models.ReviewPositive)
	assert.ErrorIs(suite.T(), err, ErrSolutionNotFound)
}

// TestCreateReview_InvalidType
func (suite *ReviewServiceTestSuite) TestCreateReview_InvalidType() {
	_, _, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), suite.solution.ID, models.ReviewType(7))
	suite.Require().Error(err)
	assert.Contains(suite.T(), err.Error(), "review_type")
}

// TestListReviews_FilterBySolution
func (suite *ReviewServiceTestSuite) TestListReviews_FilterBySolution() {
	_, _, err := suite.service.CreateReview(
		suite.actorFor(suite.reviewer), suite.solution.ID, models.ReviewPositive)
	suite.Require().NoError(err)

	reviews, err := suite.service.ListReviews(&suite.solution.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), reviews, 1)

	missing := uint64(9999)
	reviews, err = suite.service.ListReviews(&missing)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), reviews)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
