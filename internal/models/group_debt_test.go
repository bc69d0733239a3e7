package models_test

import (
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDebt splits a group expense so that the second user owes the
// first one the given amount.
func (suite *TestSuiteStandard) createTestDebt(creditor, debtor models.User, amount decimal.Decimal) models.GroupDebt {
	group := suite.createTestGroup(models.Group{}, creditor, debtor)

	_, _, _, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID:     group.ID,
		PayerID:     creditor.ID,
		Amount:      amount,
		Description: "Dinner",
	}, []models.ExpenseSplit{
		{UserID: debtor.ID, Amount: amount},
	})
	require.NoError(suite.T(), err)

	var debt models.GroupDebt
	require.NoError(suite.T(), models.DB.Where("group_id = ?", group.ID).First(&debt).Error)
	return debt
}

func (suite *TestSuiteStandard) TestPayDebtPartial() {
	creditor := suite.createTestUser(models.User{Username: "creditor"})
	debtor := suite.createTestUser(models.User{Username: "debtor"})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	notification, err := models.PayDebt(models.DB, &debt, debtor, decimal.NewFromFloat(5), false)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.DebtStatusPartial, debt.Status)
	assert.True(suite.T(), debt.Remaining().Equal(decimal.NewFromFloat(15)))

	assert.Equal(suite.T(), creditor.ID, notification.UserID)
	assert.Equal(suite.T(), "debtor has paid 5 towards the debt 'Dinner'.", notification.Message)

	// The payment materializes as an expense under the reserved category.
	var expense models.Expense
	require.NoError(suite.T(), models.DB.Where("user_id = ?", debtor.ID).First(&expense).Error)
	assert.True(suite.T(), expense.Amount.Equal(decimal.NewFromFloat(5)))

	var category models.Category
	require.NoError(suite.T(), models.DB.First(&category, expense.CategoryID).Error)
	assert.Equal(suite.T(), models.DebtCategoryName, category.Name)
}

func (suite *TestSuiteStandard) TestPayDebtFull() {
	creditor := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	_, err := models.PayDebt(models.DB, &debt, debtor, decimal.Zero, true)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.DebtStatusPaid, debt.Status)
	assert.True(suite.T(), debt.Remaining().IsZero())

	// A settled debt cannot be paid again.
	_, err = models.PayDebt(models.DB, &debt, debtor, decimal.NewFromFloat(1), false)
	assert.ErrorIs(suite.T(), err, models.ErrDebtAlreadySettled)
}

func (suite *TestSuiteStandard) TestPayDebtTooLarge() {
	creditor := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	_, err := models.PayDebt(models.DB, &debt, debtor, decimal.NewFromFloat(25), false)
	assert.ErrorIs(suite.T(), err, models.ErrDebtPaymentTooLarge)
}

func (suite *TestSuiteStandard) TestPayDebtNotYours() {
	creditor := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	_, err := models.PayDebt(models.DB, &debt, creditor, decimal.NewFromFloat(5), false)
	assert.ErrorIs(suite.T(), err, models.ErrNotYourDebt)
}

func (suite *TestSuiteStandard) TestPayDebtAmountNotPositive() {
	creditor := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	_, err := models.PayDebt(models.DB, &debt, debtor, decimal.Zero, false)
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestDisputeDebt() {
	creditor := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	debt := suite.createTestDebt(creditor, debtor, decimal.NewFromFloat(20))

	err := models.DisputeDebt(models.DB, &debt, creditor.ID)
	assert.ErrorIs(suite.T(), err, models.ErrNotYourDebt)

	require.NoError(suite.T(), models.DisputeDebt(models.DB, &debt, debtor.ID))
	assert.Equal(suite.T(), models.DebtStatusDisputed, debt.Status)

	// Settled debts cannot be disputed.
	_, err = models.PayDebt(models.DB, &debt, debtor, decimal.Zero, true)
	require.NoError(suite.T(), err)

	err = models.DisputeDebt(models.DB, &debt, debtor.ID)
	assert.ErrorIs(suite.T(), err, models.ErrDebtAlreadySettled)
}
