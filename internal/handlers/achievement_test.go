package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/constants"
	"github.com/mindhaven/mindhaven-api/internal/database"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"github.com/mindhaven/mindhaven-api/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AchievementHandlerTestSuite defines the test suite for AchievementHandler
type AchievementHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	goalService *services.GoalService
	handler     *AchievementHandler
	router      *gin.Engine
	user        *models.User
}

// SetupTest runs before each test
func (suite *AchievementHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = openTestDB()
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Customer{},
		&models.User{},
		&models.Achievement{},
		&models.GoalAssignment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	achievementRepo := repository.NewAchievementRepository(suite.db)
	suite.goalService = services.NewGoalService(
		repository.NewGoalRepository(suite.db),
		repository.NewUserRepository(suite.db),
		achievementRepo,
	)
	suite.handler = NewAchievementHandler(services.NewAchievementService(achievementRepo), suite.goalService)

	customer := &models.Customer{CompanyName: "Clinic", CompanyEmail: "clinic@example.com", MaxUsers: 50, IsActive: true}
	suite.db.Create(customer)
	suite.user = &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		IsActive:     true,
		CustomerID:   customer.ID,
	}
	suite.db.Create(suite.user)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	// Inject the authenticated user the way RequireAuth would
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.user.ID)
		c.Set(constants.ContextKeyUser, suite.user)
	})
	suite.router.GET("/achievements", suite.handler.CurrentGoals)
	suite.router.GET("/achievements/all", suite.handler.ListAll)
	suite.router.GET("/achievements/categories", suite.handler.Categories)
	suite.router.GET("/achievements/recent", suite.handler.RecentCompleted)
	suite.router.GET("/achievements/progress", suite.handler.Progress)
	suite.router.GET("/achievements/:id", suite.handler.Get)
	suite.router.POST("/achievements/:id/complete", suite.handler.Complete)
}

// TearDownTest runs after each test
func (suite *AchievementHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AchievementHandlerTestSuite) createAchievements(frequency models.Frequency, count, points int) []models.Achievement {
	achievements := make([]models.Achievement, 0, count)
	for i := 0; i < count; i++ {
		a := models.Achievement{
			Title:      fmt.Sprintf("%s goal %d", frequency, i+1),
			PointValue: points,
			Duration:   60,
			Frequency:  frequency,
		}
		suite.db.Create(&a)
		achievements = append(achievements, a)
	}
	return achievements
}

func (suite *AchievementHandlerTestSuite) request(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AchievementHandlerTestSuite) TestCurrentGoalsEmpty() {
	w := suite.request("GET", "/achievements")
	suite.Equal(http.StatusOK, w.Code)

	var body map[string][]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Empty(body["daily"])
	suite.Empty(body["weekly"])
	suite.Empty(body["monthly"])
}

func (suite *AchievementHandlerTestSuite) TestCurrentGoalsAfterAssignment() {
	suite.createAchievements(models.FrequencyDaily, 6, 5)
	_, err := suite.goalService.AssignDailyGoals(nil)
	suite.Require().NoError(err)

	w := suite.request("GET", "/achievements")
	suite.Equal(http.StatusOK, w.Code)

	var body map[string][]map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body["daily"], 5)
	suite.Contains(body["daily"][0], "title")
	suite.Contains(body["daily"][0], "due_date")
}

func (suite *AchievementHandlerTestSuite) TestListAll() {
	suite.createAchievements(models.FrequencyDaily, 3, 5)
	suite.createAchievements(models.FrequencyWeekly, 2, 10)

	w := suite.request("GET", "/achievements/all")
	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		Achievements []map[string]any `json:"achievements"`
		TotalCount   int64            `json:"total_count"`
		TotalPages   int              `json:"total_pages"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Achievements, 5)
	suite.Equal(int64(5), body.TotalCount)
	suite.Equal(1, body.TotalPages)
}

func (suite *AchievementHandlerTestSuite) TestListAllFiltersByCategory() {
	suite.createAchievements(models.FrequencyDaily, 3, 5)
	suite.createAchievements(models.FrequencyWeekly, 2, 10)

	w := suite.request("GET", "/achievements/all?category=weekly")
	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		Achievements []map[string]any `json:"achievements"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Achievements, 2)
}

func (suite *AchievementHandlerTestSuite) TestGetNotFound() {
	w := suite.request("GET", "/achievements/9999")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AchievementHandlerTestSuite) TestCompleteFlow() {
	achievements := suite.createAchievements(models.FrequencyDaily, 5, 15)
	_, err := suite.goalService.AssignDailyGoals(nil)
	suite.Require().NoError(err)

	path := fmt.Sprintf("/achievements/%d/complete", achievements[0].ID)

	w := suite.request("POST", path)
	suite.Equal(http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(float64(15), body["points_earned"])

	// Completing the same goal again conflicts
	w = suite.request("POST", path)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AchievementHandlerTestSuite) TestCompleteUnassignedConflicts() {
	achievements := suite.createAchievements(models.FrequencyDaily, 1, 15)

	w := suite.request("POST", fmt.Sprintf("/achievements/%d/complete", achievements[0].ID))
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AchievementHandlerTestSuite) TestProgress() {
	achievements := suite.createAchievements(models.FrequencyDaily, 5, 10)
	_, err := suite.goalService.AssignDailyGoals(nil)
	suite.Require().NoError(err)
	_, err = suite.goalService.CompleteAchievement(suite.user.ID, achievements[0].ID)
	suite.Require().NoError(err)

	w := suite.request("GET", "/achievements/progress")
	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		Daily struct {
			Completed int `json:"completed"`
			Total     int `json:"total"`
			Assigned  int `json:"assigned"`
		} `json:"daily"`
		TotalPoints int `json:"total_points"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(1, body.Daily.Completed)
	suite.Equal(5, body.Daily.Total)
	suite.Equal(4, body.Daily.Assigned)
	suite.Equal(10, body.TotalPoints)
}

func (suite *AchievementHandlerTestSuite) TestRecentCompleted() {
	achievements := suite.createAchievements(models.FrequencyDaily, 5, 10)
	_, err := suite.goalService.AssignDailyGoals(nil)
	suite.Require().NoError(err)
	_, err = suite.goalService.CompleteAchievement(suite.user.ID, achievements[0].ID)
	suite.Require().NoError(err)

	w := suite.request("GET", "/achievements/recent")
	suite.Equal(http.StatusOK, w.Code)

	var body map[string][]map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body["achievements"], 1)
}

func TestAchievementHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AchievementHandlerTestSuite))
}
