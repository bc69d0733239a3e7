package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreateExpense() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Groceries"})

	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:      decimal.NewFromFloat(14.50),
		Description: "Lunch at the corner place",
		Date:        date(2026, time.August, 20),
		CategoryID:  category.ID,
	})

	assert.True(suite.T(), expense.Amount.Equal(decimal.NewFromFloat(14.50)))
	assert.Equal(suite.T(), category.ID, expense.CategoryID)
	assert.Contains(suite.T(), expense.Links.Category, "/v1/categories/"+category.ID.String())
}

func (suite *TestSuiteStandard) TestCreateExpenseInvalid() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Negative amount", v1.ExpenseEditable{Amount: decimal.NewFromFloat(-1), CategoryID: category.ID}, http.StatusBadRequest},
		{"Unknown category", v1.ExpenseEditable{Amount: decimal.NewFromFloat(5)}, http.StatusNotFound},
		{"Empty body", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/expenses", tt.body, headers)
		assert.Equal(suite.T(), tt.status, r.Code, tt.name)
	}
}

func (suite *TestSuiteStandard) TestGetExpensesFiltered() {
	_, headers := suite.signUp()
	groceries := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Groceries"})
	transport := suite.createTestCategory(headers, v1.CategoryEditable{Name: "Transport"})

	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:      decimal.NewFromFloat(30),
		Description: "Weekly shop",
		Date:        date(2026, time.August, 10),
		CategoryID:  groceries.ID,
	})
	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:      decimal.NewFromFloat(12),
		Description: "Bus ticket",
		Date:        date(2026, time.August, 12),
		CategoryID:  transport.ID,
	})
	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:      decimal.NewFromFloat(25),
		Description: "Weekly shop",
		Date:        date(2026, time.September, 1),
		CategoryID:  groceries.ID,
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 3},
		{"By category", fmt.Sprintf("?category=%s", groceries.ID), 2},
		{"By description", "?description=Bus", 1},
		{"By date range", "?fromDate=2026-08-01&untilDate=2026-08-31", 2},
		{"Combined", fmt.Sprintf("?category=%s&untilDate=2026-08-31", groceries.ID), 1},
	}

	for _, tt := range tests {
		r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/expenses"+tt.query, nil, headers)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response v1.ExpenseListResponse
		test.DecodeResponse(suite.T(), &r, &response)
		assert.Len(suite.T(), response.Data, tt.count, tt.name)
	}
}

func (suite *TestSuiteStandard) TestGetExpensesSortedByDate() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	older := suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(10),
		Date:       date(2026, time.August, 1),
		CategoryID: category.ID,
	})
	newer := suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(10),
		Date:       date(2026, time.August, 15),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/expenses", nil, headers)
	var response v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), newer.ID, response.Data[0].ID)
	assert.Equal(suite.T(), older.ID, response.Data[1].ID)
}

func (suite *TestSuiteStandard) TestUpdateExpense() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/expenses/%s", expense.ID), map[string]string{
		"amount": "22.50",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.api, suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses/%s", expense.ID), nil, headers)
	var response v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.Amount.Equal(decimal.NewFromFloat(22.50)))
}

func (suite *TestSuiteStandard) TestDeleteExpense() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/expenses/%s", expense.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.api, suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses/%s", expense.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// An expense that pushes spending over the active budget's limit triggers a
// threshold notification.
func (suite *TestSuiteStandard) TestCreateExpenseTriggersBudgetCheck() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	suite.createTestBudget(headers, v1.BudgetEditable{
		AmountLimit: decimal.NewFromFloat(200),
		StartDate:   date(2026, time.August, 1),
		EndDate:     date(2026, time.August, 31),
	})

	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(250),
		Date:       date(2026, time.August, 5),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/notifications", nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "You've exceeded your budget of 200 by 50.", response.Data[0].Message)
}

func (suite *TestSuiteStandard) TestGetExpensesPagination() {
	_, headers := suite.signUp()
	category := suite.createTestCategory(headers, v1.CategoryEditable{})

	for i := 0; i < 3; i++ {
		suite.createTestExpense(headers, v1.ExpenseEditable{
			Amount:     decimal.NewFromFloat(10),
			Date:       date(2026, time.August, 10+i),
			CategoryID: category.ID,
		})
	}

	tests := []struct {
		query         string
		expectedCount int
		expectedTotal int64
	}{
		{"limit=2", 2, 3},
		{"limit=2&offset=2", 1, 3},
		{"offset=3", 0, 3},
		{"limit=0", 0, 3},
		{"", 3, 3},
	}

	for _, tt := range tests {
		r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/expenses?"+tt.query, nil, headers)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response v1.ExpenseListResponse
		test.DecodeResponse(suite.T(), &r, &response)

		require.NotNil(suite.T(), response.Pagination, tt.query)
		assert.Len(suite.T(), response.Data, tt.expectedCount, tt.query)
		assert.Equal(suite.T(), tt.expectedCount, response.Pagination.Count, tt.query)
		assert.Equal(suite.T(), tt.expectedTotal, response.Pagination.Total, tt.query)
	}
}
