package services

import (
	"testing"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
	admin   *models.User
	member  *models.User
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
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

	suite.service = NewUserService(
		repository.NewUserRepository(suite.db),
		repository.NewCustomerRepository(suite.db),
		repository.NewAchievementRepository(suite.db),
	)

	customer := &models.Customer{CompanyName: "Clinic", CompanyEmail: "clinic@example.com", MaxUsers: 50, IsActive: true}
	suite.db.Create(customer)
	suite.admin = suite.createUser("admin", models.RoleAdmin, customer.ID)
	suite.member = suite.createUser("bob", models.RoleUser, customer.ID)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createUser(username string, role models.UserRole, customerID uint64) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username + " Example",
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
		CustomerID:   customerID,
	}
	suite.db.Create(user)
	return user
}

func (suite *UserServiceTestSuite) createOtherTenantUser() *models.User {
	other := &models.Customer{CompanyName: "Other", CompanyEmail: "other@example.com", MaxUsers: 50, IsActive: true}
	suite.db.Create(other)
	return suite.createUser("stranger", models.RoleUser, other.ID)
}

func (suite *UserServiceTestSuite) TestGetSelf() {
	user, err := suite.service.Get(suite.member.ID, suite.member)
	suite.NoError(err)
	suite.Equal(suite.member.ID, user.ID)
}

func (suite *UserServiceTestSuite) TestGetOtherUserDeniedForRegularUser() {
	_, err := suite.service.Get(suite.admin.ID, suite.member)
	suite.ErrorIs(err, ErrUserPermissionDenied)
}

func (suite *UserServiceTestSuite) TestGetAcrossTenantsDenied() {
	stranger := suite.createOtherTenantUser()

	_, err := suite.service.Get(stranger.ID, suite.admin)
	suite.ErrorIs(err, ErrNotInCustomer)
}

func (suite *UserServiceTestSuite) TestUpdateSelfCannotChangeRole() {
	role := models.RoleAdmin
	_, err := suite.service.Update(suite.member.ID, UpdateInput{Role: &role}, suite.member)
	suite.ErrorIs(err, ErrUserPermissionDenied)
}

func (suite *UserServiceTestSuite) TestUpdateProfileFields() {
	email := "bob.new@example.com"
	name := "Robert Jones"
	user, err := suite.service.Update(suite.member.ID, UpdateInput{Email: &email, FullName: &name}, suite.member)
	suite.NoError(err)
	suite.Equal(email, user.Email)
	suite.Equal(name, user.FullName)
}

func (suite *UserServiceTestSuite) TestDeleteSelfRejected() {
	err := suite.service.Delete(suite.admin.ID, suite.admin)
	suite.ErrorIs(err, ErrCannotModifySelf)
}

func (suite *UserServiceTestSuite) TestDeleteRemovesUser() {
	err := suite.service.Delete(suite.member.ID, suite.admin)
	suite.NoError(err)

	_, err = suite.service.Get(suite.member.ID, suite.admin)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestCreateInactiveUserStaysInactive() {
	user := &models.User{
		Username:     "dormant",
		Email:        "dormant@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		IsActive:     false,
		CustomerID:   suite.admin.CustomerID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)

	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, user.ID).Error)
	suite.False(stored.IsActive)
}

func (suite *UserServiceTestSuite) TestDemoteAdminRejected() {
	other := suite.createUser("root2", models.RoleAdmin, suite.admin.CustomerID)

	_, err := suite.service.Demote(other.ID, suite.admin)
	suite.ErrorIs(err, ErrCannotModifyAdmin)
}

func (suite *UserServiceTestSuite) TestSearchMatchesNameAndEmail() {
	result, err := suite.service.Search("example.com", suite.admin, 0, 20)
	suite.NoError(err)
	suite.Equal(2, result.TotalFound)

	result, err = suite.service.Search("Robert", suite.admin, 0, 20)
	suite.NoError(err)
	suite.Equal(0, result.TotalFound)

	result, err = suite.service.Search("bob", suite.admin, 0, 20)
	suite.NoError(err)
	suite.Equal(1, result.TotalFound)
}

func (suite *UserServiceTestSuite) TestSearchExcludesOtherTenants() {
	suite.createOtherTenantUser()

	result, err := suite.service.Search("stranger", suite.admin, 0, 20)
	suite.NoError(err)
	suite.Equal(0, result.TotalFound)
}

func (suite *UserServiceTestSuite) TestSearchShortQueryRejected() {
	_, err := suite.service.Search(" a ", suite.admin, 0, 20)
	suite.ErrorIs(err, ErrSearchQueryTooShort)
}

func (suite *UserServiceTestSuite) TestStats() {
	suite.db.Model(suite.member).Update("is_active", false)
	suite.db.Create(&models.Achievement{Title: "g", PointValue: 5, Duration: 60, Frequency: models.FrequencyDaily})

	stats, err := suite.service.Stats(suite.admin)
	suite.NoError(err)
	suite.Equal(2, stats.TotalUsers)
	suite.Equal(1, stats.ActiveUsers)
	suite.Equal(1, stats.InactiveUsers)
	suite.Equal(1, stats.UserRoles["admins"])
	suite.Equal(int64(1), stats.DailyAchievements)
	suite.Equal(int64(1), stats.TotalAchievements)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
