package models_test

import (
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExpenseAmountNotPositive() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	err := models.DB.Create(&models.Expense{
		Amount:     decimal.NewFromFloat(-3),
		UserID:     user.ID,
		CategoryID: category.ID,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)

	err = models.DB.Create(&models.Expense{
		Amount:     decimal.Zero,
		UserID:     user.ID,
		CategoryID: category.ID,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestExpenseUnknownCategory() {
	user := suite.createTestUser(models.User{})

	err := models.DB.Create(&models.Expense{
		Amount: decimal.NewFromFloat(5),
		UserID: user.ID,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpenseForeignCategory() {
	owner := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: owner.ID})
	other := suite.createTestUser(models.User{})

	// Another user's category is indistinguishable from a missing one.
	err := models.DB.Create(&models.Expense{
		Amount:     decimal.NewFromFloat(5),
		UserID:     other.ID,
		CategoryID: category.ID,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	// Updating towards a foreign category is rejected as well.
	own := suite.createTestCategory(models.Category{UserID: other.ID})
	expense := suite.createTestExpense(models.Expense{
		Amount:     decimal.NewFromFloat(5),
		UserID:     other.ID,
		CategoryID: own.ID,
	})
	err = models.DB.Model(&expense).Updates(models.Expense{UserID: other.ID, CategoryID: category.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpenseDateDefaultsToNow() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	expense := suite.createTestExpense(models.Expense{
		UserID:     user.ID,
		CategoryID: category.ID,
	})

	assert.False(suite.T(), expense.Date.IsZero())
	assert.WithinDuration(suite.T(), time.Now().UTC(), expense.Date, time.Minute)
}

func (suite *TestSuiteStandard) TestExpensesInWindow() {
	user := suite.createTestUser(models.User{})
	groceries := suite.createTestCategory(models.Category{UserID: user.ID})
	transport := suite.createTestCategory(models.Category{UserID: user.ID})

	inWindow := suite.createTestExpense(models.Expense{
		Amount:     decimal.NewFromFloat(30),
		Date:       date(2026, time.August, 10),
		UserID:     user.ID,
		CategoryID: groceries.ID,
	})
	suite.createTestExpense(models.Expense{
		Amount:     decimal.NewFromFloat(12),
		Date:       date(2026, time.August, 12),
		UserID:     user.ID,
		CategoryID: transport.ID,
	})
	suite.createTestExpense(models.Expense{
		Amount:     decimal.NewFromFloat(99),
		Date:       date(2026, time.September, 2),
		UserID:     user.ID,
		CategoryID: groceries.ID,
	})

	// Whole window, all categories.
	expenses, err := models.ExpensesInWindow(models.DB, user.ID, date(2026, time.August, 1), date(2026, time.August, 31), nil)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), expenses, 2)

	// Scoped to one category.
	expenses, err = models.ExpensesInWindow(models.DB, user.ID, date(2026, time.August, 1), date(2026, time.August, 31), &groceries.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), inWindow.ID, expenses[0].ID)

	// Window boundaries are inclusive.
	expenses, err = models.ExpensesInWindow(models.DB, user.ID, date(2026, time.August, 10), date(2026, time.August, 10), nil)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), expenses, 1)
}

func (suite *TestSuiteStandard) TestDebtCategoryFindOrCreate() {
	user := suite.createTestUser(models.User{})

	first, err := models.DebtCategory(models.DB, user.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DebtCategoryName, first.Name)

	second, err := models.DebtCategory(models.DB, user.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), first.ID, second.ID)
}
