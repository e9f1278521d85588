package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/cache"
	"github.com/practicehub/catalog-api/internal/constants"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/security"
	"github.com/practicehub/catalog-api/internal/services"
)

// APITestSuite exercises the HTTP surface end to end: real router, real
// middleware, in-memory stores.
type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	router *gin.Engine
	tokens *security.TokenManager

	category *models.Category
	diff     *models.Difficulty
	lang     *models.ProgrammingLanguage
}

// SetupTest runs before each test
func (suite *APITestSuite) SetupTest() {
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

	suite.mr, err = miniredis.Run()
	suite.Require().NoError(err)
	suite.rdb = redis.NewClient(&redis.Options{Addr: suite.mr.Addr()})

	logger := zap.NewNop()
	refCache := cache.New(suite.rdb, time.Hour, logger)

	userRepo := repository.NewUserRepository(suite.db)
	refRepo := repository.NewReferenceRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	solutionRepo := repository.NewSolutionRepository(suite.db)
	reviewRepo := repository.NewReviewRepository(suite.db)

	authService := services.NewAuthService(userRepo)
	refService := services.NewReferenceService(refRepo, refCache, logger)
	taskService := services.NewTaskService(taskRepo, refRepo)
	solutionService := services.NewSolutionService(solutionRepo, taskRepo, refRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, solutionRepo, logger)

	suite.tokens = security.NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	authHandler := NewAuthHandler(authService, suite.tokens, false, logger)
	taskHandler := NewTaskHandler(taskService, logger)
	solutionHandler := NewSolutionHandler(solutionService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	refHandler := NewReferenceHandler(refService, logger)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	api := suite.router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.RequireAuth(suite.tokens), authHandler.Logout)
	auth.GET("/me", middleware.RequireAuth(suite.tokens), authHandler.Me)

	tasks := api.Group("/tasks")
	tasks.GET("", middleware.OptionalAuth(suite.tokens), taskHandler.ListTasks)
	tasks.GET("/:id", middleware.OptionalAuth(suite.tokens), taskHandler.GetTask)
	tasks.POST("", middleware.RequireAuth(suite.tokens), taskHandler.CreateTask)
	tasks.PATCH("/:id", middleware.RequireAuth(suite.tokens), taskHandler.UpdateTask)
	tasks.DELETE("/:id", middleware.RequireAuth(suite.tokens), taskHandler.DeleteTask)

	solutions := api.Group("/solutions")
	solutions.GET("", middleware.OptionalAuth(suite.tokens), solutionHandler.ListSolutions)
	solutions.GET("/:id", middleware.OptionalAuth(suite.tokens), solutionHandler.GetSolution)
	solutions.POST("", middleware.RequireAuth(suite.tokens), solutionHandler.CreateSolution)
	solutions.PATCH("/:id", middleware.RequireAuth(suite.tokens), solutionHandler.UpdateSolution)
	solutions.DELETE("/:id", middleware.RequireAuth(suite.tokens), solutionHandler.DeleteSolution)
	solutions.POST("/:id/publish", middleware.RequireAuth(suite.tokens), solutionHandler.PublishSolution)

	reviews := api.Group("/reviews")
	reviews.GET("", middleware.RequireAuth(suite.tokens), reviewHandler.ListReviews)
	reviews.POST("", middleware.RequireAuth(suite.tokens), reviewHandler.CreateReview)

	categories := api.Group("/categories")
	categories.GET("", refHandler.ListCategories)
	categories.POST("", middleware.RequireAuth(suite.tokens), middleware.RequireStaff(), refHandler.CreateCategory)
	categories.DELETE("/:id", middleware.RequireAuth(suite.tokens), middleware.RequireStaff(), refHandler.DeleteCategory)

	suite.category = &models.Category{Name: "Algorithms"}
	suite.diff = &models.Difficulty{Name: "Easy"}
	suite.lang = &models.ProgrammingLanguage{Name: "Go"}
	suite.Require().NoError(suite.db.Create(suite.category).Error)
	suite.Require().NoError(suite.db.Create(suite.diff).Error)
	suite.Require().NoError(suite.db.Create(suite.lang).Error)
}

// TearDownTest runs after each test
func (suite *APITestSuite) TearDownTest() {
	suite.rdb.Close()
	suite.mr.Close()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *APITestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: constants.AccessCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) createUser(username string, staff bool) (*models.User, string) {
	user := &models.User{Username: username, PasswordHash: "x", IsStaff: staff}
	suite.Require().NoError(suite.db.Create(user).Error)
	token, err := suite.tokens.GenerateAccessToken(user.ID, user.IsStaff)
	suite.Require().NoError(err)
	return user, token
}

func (suite *APITestSuite) createTask(owner *models.User, name string, status models.TaskStatus) *models.ProgrammingTask {
	task := &models.ProgrammingTask{
		Name: name, Description: "desc",
		CategoryID: suite.category.ID, DifficultyID: suite.diff.ID,
		AddedByID: owner.ID, Status: status,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *APITestSuite) createSolution(task *models.ProgrammingTask, owner *models.User, public bool) *models.Solution {
	sol := &models.Solution{
		TaskID: task.ID, Code: "func main() {}", LanguageID: suite.lang.ID,
		UserID: owner.ID, IsPublic: public,
	}
	if public {
		now := time.Now()
		sol.PublishedAt = &now
	}
	suite.Require().NoError(suite.db.Create(sol).Error)
	return sol
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// TestRegisterLoginMe the full signup and session flow, cookie included
func (suite *APITestSuite) TestRegisterLoginMe() {
	w := suite.do("POST", "/api/auth/register", gin.H{
		"username":         "alice",
		"password":         "sup3rsecret",
		"password_confirm": "sup3rsecret",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do("POST", "/api/auth/login", gin.H{
		"username": "alice",
		"password": "sup3rsecret",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var access string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.AccessCookieName {
			access = cookie.Value
			assert.True(suite.T(), cookie.HttpOnly)
		}
	}
	suite.Require().NotEmpty(access)

	w = suite.do("GET", "/api/auth/me", nil, access)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "alice", suite.decode(w)["username"])
}

// TestLogin_WrongPassword
func (suite *APITestSuite) TestLogin_WrongPassword() {
	suite.do("POST", "/api/auth/register", gin.H{
		"username": "alice", "password": "sup3rsecret", "password_confirm": "sup3rsecret",
	}, "")

	w := suite.do("POST", "/api/auth/login", gin.H{
		"username": "alice", "password": "nope",
	}, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	body := suite.decode(w)
	assert.Equal(suite.T(), "AuthenticationRequired", body["error"])
	assert.EqualValues(suite.T(), http.StatusUnauthorized, body["status_code"])
}

// TestMe_Unauthenticated
func (suite *APITestSuite) TestMe_Unauthenticated() {
	w := suite.do("GET", "/api/auth/me", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRefreshRotatesTokens
func (suite *APITestSuite) TestRefreshRotatesTokens() {
	user, _ := suite.createUser("alice", false)
	refresh, err := suite.tokens.GenerateRefreshToken(user.ID, false)
	suite.Require().NoError(err)

	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: refresh})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code)
	names := map[string]bool{}
	for _, cookie := range w.Result().Cookies() {
		names[cookie.Name] = cookie.Value != ""
	}
	assert.True(suite.T(), names[constants.AccessCookieName])
	assert.True(suite.T(), names[constants.RefreshCookieName])
}

// TestRefresh_AccessTokenRejected an access token cannot be used to refresh
func (suite *APITestSuite) TestRefresh_AccessTokenRejected() {
	_, access := suite.createUser("alice", false)

	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: access})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestTaskVisibilityOverHTTP anonymous callers see public tasks only
func (suite *APITestSuite) TestTaskVisibilityOverHTTP() {
	owner, token := suite.createUser("alice", false)
	suite.createTask(owner, "Public Task", models.TaskStatusPublic)
	private := suite.createTask(owner, "Private Task", models.TaskStatusPrivate)

	w := suite.do("GET", "/api/tasks", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 1, suite.decode(w)["total_count"])

	w = suite.do("GET", "/api/tasks", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 2, suite.decode(w)["total_count"])

	w = suite.do("GET", fmt.Sprintf("/api/tasks/%d", private.ID), nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do("GET", fmt.Sprintf("/api/tasks/%d", private.ID), nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestCreateTaskOverHTTP
func (suite *APITestSuite) TestCreateTaskOverHTTP() {
	_, token := suite.createUser("alice", false)

	w := suite.do("POST", "/api/tasks", gin.H{
		"name":        "Two Sum",
		"description": "Find two numbers adding to target",
		"category":    suite.category.ID,
		"difficulty":  suite.diff.ID,
	}, token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	body := suite.decode(w)
	assert.Equal(suite.T(), "Two Sum", body["name"])
	assert.Equal(suite.T(), string(models.TaskStatusPrivate), body["status"])
	assert.Equal(suite.T(), "alice", body["added_by"])
}

// TestCreateTask_ValidationEnvelope field errors arrive as a detail map
func (suite *APITestSuite) TestCreateTask_ValidationEnvelope() {
	_, token := suite.createUser("alice", false)

	w := suite.do("POST", "/api/tasks", gin.H{
		"name":       "ab",
		"category":   suite.category.ID,
		"difficulty": suite.diff.ID,
	}, token)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	body := suite.decode(w)
	assert.Equal(suite.T(), "ValidationError", body["error"])
	detail, ok := body["detail"].(map[string]any)
	suite.Require().True(ok)
	assert.Contains(suite.T(), detail, "name")
}

// TestUpdateTask_Forbidden
func (suite *APITestSuite) TestUpdateTask_Forbidden() {
	owner, _ := suite.createUser("alice", false)
	_, otherToken := suite.createUser("bob", false)
	task := suite.createTask(owner, "Public Task", models.TaskStatusPublic)

	w := suite.do("PATCH", fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{"name": "Stolen"}, otherToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestPublishSolutionFlow publish promotes the task; unpublish leaves it public
func (suite *APITestSuite) TestPublishSolutionFlow() {
	owner, token := suite.createUser("alice", false)
	task := suite.createTask(owner, "Two Sum", models.TaskStatusPrivate)
	sol := suite.createSolution(task, owner, false)

	w := suite.do("POST", fmt.Sprintf("/api/solutions/%d/publish", sol.ID), gin.H{"is_public": true}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	assert.Equal(suite.T(), true, body["is_public"])
	assert.NotNil(suite.T(), body["published_at"])

	var reloaded models.ProgrammingTask
	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusPublic, reloaded.Status)

	w = suite.do("POST", fmt.Sprintf("/api/solutions/%d/publish", sol.ID), gin.H{"is_public": false}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), false, suite.decode(w)["is_public"])

	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusPublic, reloaded.Status)
}

// TestReviewFlow first verdict answers 201, the overwrite answers 200 and
// the counts follow
func (suite *APITestSuite) TestReviewFlow() {
	author, _ := suite.createUser("author", false)
	_, reviewerToken := suite.createUser("reviewer", false)
	task := suite.createTask(author, "Two Sum", models.TaskStatusPublic)
	sol := suite.createSolution(task, author, true)

	w := suite.do("POST", "/api/reviews", gin.H{"solution": sol.ID, "review_type": 1}, reviewerToken)
	suite.Require().Equal(http.StatusCreated, w.Code)
	firstID := suite.decode(w)["id"]

	w = suite.do("POST", "/api/reviews", gin.H{"solution": sol.ID, "review_type": 0}, reviewerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	assert.Equal(suite.T(), firstID, body["id"])
	assert.EqualValues(suite.T(), 0, body["review_type"])

	w = suite.do("GET", fmt.Sprintf("/api/solutions/%d", sol.ID), nil, reviewerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	solBody := suite.decode(w)
	assert.EqualValues(suite.T(), 0, solBody["positive_reviews_count"])
	assert.EqualValues(suite.T(), 1, solBody["negative_reviews_count"])
	userReview, ok := solBody["user_review"].(map[string]any)
	suite.Require().True(ok)
	assert.EqualValues(suite.T(), 0, userReview["review_type"])
}

// TestListReviewsRequiresAuth the review list is a members-only surface
func (suite *APITestSuite) TestListReviewsRequiresAuth() {
	_, token := suite.createUser("reviewer", false)

	w := suite.do("GET", "/api/reviews", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("GET", "/api/reviews", nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestSelfReviewRejected
func (suite *APITestSuite) TestSelfReviewRejected() {
	author, token := suite.createUser("author", false)
	task := suite.createTask(author, "Two Sum", models.TaskStatusPublic)
	sol := suite.createSolution(task, author, true)

	w := suite.do("POST", "/api/reviews", gin.H{"solution": sol.ID, "review_type": 1}, token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCategoryWritesAreStaffOnly
func (suite *APITestSuite) TestCategoryWritesAreStaffOnly() {
	_, userToken := suite.createUser("alice", false)
	_, staffToken := suite.createUser("admin", true)

	w := suite.do("POST", "/api/categories", gin.H{"name": "Graphs"}, userToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do("POST", "/api/categories", gin.H{"name": "Graphs"}, staffToken)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.do("GET", "/api/categories", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var items []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(suite.T(), items, 2)
}

// TestDeleteCategory_InUseConflict
func (suite *APITestSuite) TestDeleteCategory_InUseConflict() {
	owner, _ := suite.createUser("alice", false)
	_, staffToken := suite.createUser("admin", true)
	suite.createTask(owner, "Two Sum", models.TaskStatusPublic)

	w := suite.do("DELETE", fmt.Sprintf("/api/categories/%d", suite.category.ID), nil, staffToken)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestSolutionCreateRequiresAuth
func (suite *APITestSuite) TestSolutionCreateRequiresAuth() {
	owner, _ := suite.createUser("alice", false)
	task := suite.createTask(owner, "Two Sum", models.TaskStatusPublic)

	w := suite.do("POST", "/api/solutions", gin.H{
		"task": task.ID, "code": "print(1)", "language": suite.lang.ID,
	}, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestSolutionFilters list narrows by task and language
func (suite *APITestSuite) TestSolutionFilters() {
	owner, _ := suite.createUser("alice", false)
	taskA := suite.createTask(owner, "Task A", models.TaskStatusPublic)
	taskB := suite.createTask(owner, "Task B", models.TaskStatusPublic)
	suite.createSolution(taskA, owner, true)
	suite.createSolution(taskB, owner, true)

	w := suite.do("GET", fmt.Sprintf("/api/solutions?task=%d", taskA.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 1, suite.decode(w)["total_count"])

	w = suite.do("GET", "/api/solutions?category=algorithms", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.EqualValues(suite.T(), 2, suite.decode(w)["total_count"])
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
