package services

import (
	"bytes"
	"testing"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AchievementImportTestSuite defines the test suite for the Excel import
type AchievementImportTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AchievementService
}

// SetupTest runs before each test
func (suite *AchievementImportTestSuite) SetupTest() {
	var err error

	suite.db, err = openTestDB()
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Achievement{})
	suite.Require().NoError(err)

	suite.service = NewAchievementService(repository.NewAchievementRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *AchievementImportTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// buildSheet writes a header row plus the given rows into an in-memory xlsx.
func (suite *AchievementImportTestSuite) buildSheet(rows [][]any) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Title", "Description", "Points", "Duration", "Frequency"}
	suite.Require().NoError(f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		suite.Require().NoError(err)
		suite.Require().NoError(f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	suite.Require().NoError(err)
	return buf
}

func (suite *AchievementImportTestSuite) TestImportCreatesRows() {
	buf := suite.buildSheet([][]any{
		{"Morning walk", "Walk 20 minutes", 10, 60, "daily"},
		{"Journal entry", "Write about your day", 15, "1-week", "weekly"},
	})

	result, err := suite.service.Import(buf)
	suite.NoError(err)
	suite.Equal(2, result.Created)
	suite.Equal(0, result.Skipped)

	var walk models.Achievement
	suite.NoError(suite.db.Where("title = ?", "Morning walk").First(&walk).Error)
	suite.Equal(models.FrequencyDaily, walk.Frequency)
	suite.Equal(10, walk.PointValue)

	var journal models.Achievement
	suite.NoError(suite.db.Where("title = ?", "Journal entry").First(&journal).Error)
	suite.Equal(10080, journal.Duration)
}

func (suite *AchievementImportTestSuite) TestImportSkipsDuplicates() {
	buf := suite.buildSheet([][]any{
		{"Morning walk", "", 10, 60, "daily"},
	})
	_, err := suite.service.Import(buf)
	suite.Require().NoError(err)

	buf = suite.buildSheet([][]any{
		{"Morning walk", "", 10, 60, "daily"},
		{"Evening walk", "", 10, 60, "daily"},
	})
	result, err := suite.service.Import(buf)
	suite.NoError(err)
	suite.Equal(1, result.Created)
	suite.Equal(1, result.Skipped)
}

func (suite *AchievementImportTestSuite) TestImportRecordsRowErrors() {
	buf := suite.buildSheet([][]any{
		{"", "missing title", 10, 60, "daily"},
		{"Bad points", "", "lots", 60, "daily"},
		{"Bad frequency", "", 10, 60, "hourly"},
		{"Good", "", 10, 60, "monthly"},
	})

	result, err := suite.service.Import(buf)
	suite.NoError(err)
	suite.Equal(1, result.Created)
	suite.Equal(3, result.Skipped)
	suite.Len(result.RowErrors, 3)
}

func (suite *AchievementImportTestSuite) TestImportRejectsEmptySheet() {
	buf := suite.buildSheet(nil)

	_, err := suite.service.Import(buf)
	suite.ErrorIs(err, ErrNoDataRows)
}

func (suite *AchievementImportTestSuite) TestPreviewDoesNotPersist() {
	buf := suite.buildSheet([][]any{
		{"Morning walk", "", 10, 60, "daily"},
	})

	rows, err := suite.service.PreviewImport(buf)
	suite.NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("Morning walk", rows[0].Title)
	suite.Empty(rows[0].Error)

	var count int64
	suite.db.Model(&models.Achievement{}).Count(&count)
	suite.Equal(int64(0), count)
}

func TestAchievementImportTestSuite(t *testing.T) {
	suite.Run(t, new(AchievementImportTestSuite))
}
