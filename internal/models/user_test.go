package models_test

import (
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestUserTrimWhitespace() {
	user := models.User{
		Username: "  ada ",
		Email:    " Ada@Example.COM ",
		Password: "not-a-real-hash",
	}

	require.NoError(suite.T(), models.DB.Create(&user).Error)
	assert.Equal(suite.T(), "ada", user.Username)
	assert.Equal(suite.T(), "ada@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserUsernameTaken() {
	suite.createTestUser(models.User{Username: "grace", Email: "grace@example.com"})

	err := models.DB.Create(&models.User{
		Username: "grace",
		Email:    "other@example.com",
		Password: "not-a-real-hash",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrUsernameTaken)
}

func (suite *TestSuiteStandard) TestPurgeUser() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})
	suite.createTestExpense(models.Expense{UserID: user.ID, CategoryID: category.ID})
	suite.createTestGeneralBudget(models.GeneralBudget{
		UserID:      user.ID,
		AmountLimit: decimal.NewFromFloat(100),
		StartDate:   date(2026, 8, 1),
		EndDate:     date(2026, 8, 31),
	})

	require.NoError(suite.T(), models.PurgeUser(models.DB, user.ID))

	err := models.DB.First(&models.User{}, user.ID).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	var count int64
	require.NoError(suite.T(), models.DB.Model(&models.Expense{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)

	require.NoError(suite.T(), models.DB.Model(&models.Category{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)

	require.NoError(suite.T(), models.DB.Model(&models.GeneralBudget{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TestSuiteStandard) TestPurgeUserUnknown() {
	err := models.PurgeUser(models.DB, uuid.New())
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestUserEmailTaken() {
	suite.createTestUser(models.User{Username: "grace", Email: "grace@example.com"})

	err := models.DB.Create(&models.User{
		Username: "other",
		Email:    "Grace@example.com",
		Password: "not-a-real-hash",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrEmailTaken)
}
