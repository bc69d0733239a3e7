package models_test

import (
	"fmt"

	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestSplitGroupExpense() {
	payer := suite.createTestUser(models.User{Username: "payer"})
	debtor := suite.createTestUser(models.User{Username: "debtor"})
	group := suite.createTestGroup(models.Group{}, payer, debtor)

	expense, splits, notifications, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID:     group.ID,
		PayerID:     payer.ID,
		Amount:      decimal.NewFromFloat(60),
		Description: "Groceries",
	}, []models.ExpenseSplit{
		{UserID: payer.ID, Amount: decimal.NewFromFloat(40)},
		{UserID: debtor.ID, Amount: decimal.NewFromFloat(20)},
	})
	require.NoError(suite.T(), err)

	assert.Len(suite.T(), splits, 2)

	// Only the non-payer split becomes a debt.
	var debts []models.GroupDebt
	require.NoError(suite.T(), models.DB.Where("group_id = ?", group.ID).Find(&debts).Error)
	require.Len(suite.T(), debts, 1)
	assert.Equal(suite.T(), debtor.ID, debts[0].DebtorID)
	assert.Equal(suite.T(), payer.ID, debts[0].CreditorID)
	assert.True(suite.T(), debts[0].Amount.Equal(decimal.NewFromFloat(20)))
	assert.Equal(suite.T(), models.DebtStatusActive, debts[0].Status)

	require.Len(suite.T(), notifications, 1)
	assert.Equal(suite.T(), debtor.ID, notifications[0].UserID)
	assert.Equal(suite.T(), models.NotificationGroupDebt, notifications[0].Type)
	assert.Equal(suite.T(), fmt.Sprintf("You owe %s %s for '%s'.", "payer", "20", "Groceries"), notifications[0].Message)

	var persisted models.GroupExpense
	require.NoError(suite.T(), models.DB.First(&persisted, expense.ID).Error)
}

func (suite *TestSuiteStandard) TestSplitGroupExpenseSumMismatch() {
	payer := suite.createTestUser(models.User{})
	debtor := suite.createTestUser(models.User{})
	group := suite.createTestGroup(models.Group{}, payer, debtor)

	_, _, _, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID: group.ID,
		PayerID: payer.ID,
		Amount:  decimal.NewFromFloat(60),
	}, []models.ExpenseSplit{
		{UserID: payer.ID, Amount: decimal.NewFromFloat(40)},
		{UserID: debtor.ID, Amount: decimal.NewFromFloat(19.99)},
	})
	assert.ErrorIs(suite.T(), err, models.ErrSplitSumMismatch)

	// Nothing may be persisted when validation fails.
	var expenses int64
	require.NoError(suite.T(), models.DB.Model(&models.GroupExpense{}).Count(&expenses).Error)
	assert.Zero(suite.T(), expenses)
}

func (suite *TestSuiteStandard) TestSplitGroupExpenseNonMember() {
	payer := suite.createTestUser(models.User{})
	outsider := suite.createTestUser(models.User{})
	group := suite.createTestGroup(models.Group{}, payer)

	_, _, _, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID: group.ID,
		PayerID: payer.ID,
		Amount:  decimal.NewFromFloat(60),
	}, []models.ExpenseSplit{
		{UserID: payer.ID, Amount: decimal.NewFromFloat(40)},
		{UserID: outsider.ID, Amount: decimal.NewFromFloat(20)},
	})
	assert.ErrorIs(suite.T(), err, models.ErrSplitUserNotMember)

	// All-or-nothing: not even the expense row may survive.
	var expenses int64
	require.NoError(suite.T(), models.DB.Model(&models.GroupExpense{}).Count(&expenses).Error)
	assert.Zero(suite.T(), expenses)

	var debts int64
	require.NoError(suite.T(), models.DB.Model(&models.GroupDebt{}).Count(&debts).Error)
	assert.Zero(suite.T(), debts)
}

func (suite *TestSuiteStandard) TestSplitGroupExpensePendingMember() {
	payer := suite.createTestUser(models.User{})
	invited := suite.createTestUser(models.User{})
	group := suite.createTestGroup(models.Group{}, payer)

	// A pending member cannot be part of a split.
	require.NoError(suite.T(), models.DB.Create(&models.GroupMember{
		GroupID: group.ID,
		UserID:  invited.ID,
		Status:  models.MemberStatusPending,
	}).Error)

	_, _, _, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID: group.ID,
		PayerID: payer.ID,
		Amount:  decimal.NewFromFloat(30),
	}, []models.ExpenseSplit{
		{UserID: payer.ID, Amount: decimal.NewFromFloat(15)},
		{UserID: invited.ID, Amount: decimal.NewFromFloat(15)},
	})
	assert.ErrorIs(suite.T(), err, models.ErrSplitUserNotMember)
}

func (suite *TestSuiteStandard) TestSplitGroupExpenseAmountNotPositive() {
	payer := suite.createTestUser(models.User{})
	group := suite.createTestGroup(models.Group{}, payer)

	_, _, _, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID: group.ID,
		PayerID: payer.ID,
		Amount:  decimal.Zero,
	}, nil)
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)
}
