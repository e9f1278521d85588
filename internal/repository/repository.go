package repository

import (
	"github.com/practicehub/catalog-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks.
// Viewer drives visibility: nil means anonymous (public rows only), a set
// value widens the result to the viewer's own rows regardless of status.
type TaskFilter struct {
	Viewer       *uint64
	Status       *models.TaskStatus
	CategoryID   *uint64
	DifficultyID *uint64
	AddedByID    *uint64
	SolvedByID   *uint64
	Search       string
	Page         int
	PageSize     int
}

// SolutionFilter holds filtering options for listing solutions.
type SolutionFilter struct {
	Viewer         *uint64
	TaskID         *uint64
	LanguageID     *uint64
	CategoryName   string
	DifficultyName string
	TaskName       string
	Page           int
	PageSize       int
}

// ReviewTally aggregates review counts for one solution.
type ReviewTally struct {
	Positive int64
	Negative int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// ReferenceRepository defines data access for the staff-administered lookup
// entities. Deletes fail with ErrReferenceInUse while rows are referenced.
type ReferenceRepository interface {
	ListCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint64) error
	FindCategory(id uint64) (*models.Category, error)

	ListDifficulties() ([]models.Difficulty, error)
	CreateDifficulty(difficulty *models.Difficulty) error
	UpdateDifficulty(difficulty *models.Difficulty) error
	DeleteDifficulty(id uint64) error
	FindDifficulty(id uint64) (*models.Difficulty, error)

	ListLanguages() ([]models.ProgrammingLanguage, error)
	CreateLanguage(language *models.ProgrammingLanguage) error
	UpdateLanguage(language *models.ProgrammingLanguage) error
	DeleteLanguage(id uint64) error
	FindLanguage(id uint64) (*models.ProgrammingLanguage, error)
}

// TaskRepository defines the interface for programming task data access
type TaskRepository interface {
	Create(task *models.ProgrammingTask) error
	FindByID(id uint64, preload ...string) (*models.ProgrammingTask, error)
	List(filter TaskFilter) ([]models.ProgrammingTask, int64, error)
	Update(task *models.ProgrammingTask) error
	Delete(id uint64) error

	// ExistsByNameForUser reports whether the owner already has a task with
	// the given name, excluding one task id (0 to exclude none).
	ExistsByNameForUser(name string, ownerID, excludeID uint64) (bool, error)
}

// SolutionRepository defines the interface for solution data access
type SolutionRepository interface {
	// CreateWithTaskSync inserts the solution and, when promoteTask is set,
	// promotes the parent task to PUBLIC in the same transaction.
	CreateWithTaskSync(solution *models.Solution, promoteTask bool) error

	FindByID(id uint64, preload ...string) (*models.Solution, error)
	List(filter SolutionFilter) ([]models.Solution, int64, error)
	Update(solution *models.Solution) error
	Delete(id uint64) error

	// PromoteTask sets the task status to PUBLIC unless it already is.
	// Returns whether a row was changed.
	PromoteTask(taskID uint64) (bool, error)

	// ReviewTallies returns per-solution positive/negative review counts.
	ReviewTallies(solutionIDs []uint64) (map[uint64]ReviewTally, error)

	// ViewerReviews returns the viewer's own review per solution, if any.
	ViewerReviews(solutionIDs []uint64, viewerID uint64) (map[uint64]models.Review, error)
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Upsert inserts or overwrites the review identified by
	// (solution, added_by) and reports whether a new row was created.
	Upsert(review *models.Review) (created bool, err error)

	List(solutionID *uint64) ([]models.Review, error)
	FindBySolutionAndUser(solutionID, userID uint64) (*models.Review, error)
}
