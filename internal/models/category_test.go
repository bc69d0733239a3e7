package models_test

import (
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCategoryNameUniquePerUser() {
	user := suite.createTestUser(models.User{})

	suite.createTestCategory(models.Category{UserID: user.ID, Name: "Groceries"})

	err := models.DB.Create(&models.Category{UserID: user.ID, Name: "Groceries"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCategoryNameNotUnique)

	// The same name is fine for another user.
	other := suite.createTestUser(models.User{})
	err = models.DB.Create(&models.Category{UserID: other.ID, Name: "Groceries"}).Error
	assert.NoError(suite.T(), err)
}

func (suite *TestSuiteStandard) TestCategoryUnknownUser() {
	err := models.DB.Create(&models.Category{Name: "Orphaned"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
