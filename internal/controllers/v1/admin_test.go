package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signUpAdmin registers an admin account and returns the headers to
// authenticate requests with.
func (suite *TestSuiteStandard) signUpAdmin() (v1.User, map[string]string) {
	username := uuid.NewString()

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/admin/register", v1.AdminRegisterEditable{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "correct horse battery staple",
		MasterKey: testMasterKey,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var registered v1.RegisterResponse
	test.DecodeResponse(suite.T(), &r, &registered)

	r = test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/admin/login", v1.LoginEditable{
		Username: username,
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var login v1.LoginResponse
	test.DecodeResponse(suite.T(), &r, &login)

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", login.Data.AccessToken),
	}

	return *registered.Data, headers
}

func (suite *TestSuiteStandard) TestRegisterAdminWrongMasterKey() {
	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/admin/register", v1.AdminRegisterEditable{
		Username:  "mallory",
		Email:     "mallory@example.com",
		Password:  "correct horse battery staple",
		MasterKey: "not the master key",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAdminLoginRegularAccount() {
	// Registered through the normal signup, so not an admin. Correct
	// credentials still get the generic response so that admin accounts
	// cannot be enumerated.
	user, _ := suite.signUp()

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/admin/login", v1.LoginEditable{
		Username: user.Username,
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAdminRoutesNeedAdminAccount() {
	_, headers := suite.signUp()

	for _, path := range []string{"users", "expenses"} {
		r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/admin/"+path, nil, headers)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)
	}
}

func (suite *TestSuiteStandard) TestAdminListsAllUsers() {
	admin, adminHeaders := suite.signUpAdmin()
	user, _ := suite.signUp()

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/admin/users", nil, adminHeaders)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AdminUserListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	usernames := make([]string, 0, len(response.Data))
	for _, u := range response.Data {
		usernames = append(usernames, u.Username)
	}

	assert.Contains(suite.T(), usernames, admin.Username)
	assert.Contains(suite.T(), usernames, user.Username)
}

func (suite *TestSuiteStandard) TestAdminListsAllExpenses() {
	_, adminHeaders := suite.signUpAdmin()
	_, headers := suite.signUp()

	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(12.50),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/admin/expenses", nil, adminHeaders)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AdminExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromFloat(12.50)))
}

func (suite *TestSuiteStandard) TestAdminDeleteUser() {
	_, adminHeaders := suite.signUpAdmin()
	user, headers := suite.signUp()

	category := suite.createTestCategory(headers, v1.CategoryEditable{})
	suite.createTestExpense(headers, v1.ExpenseEditable{
		Amount:     decimal.NewFromFloat(3),
		CategoryID: category.ID,
	})

	r := test.Request(suite.api, suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/admin/users/%s", user.ID), nil, adminHeaders)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The account and everything it owned is gone.
	r = test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Username: user.Username,
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	r = test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/admin/expenses", nil, adminHeaders)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AdminExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 0)
}

func (suite *TestSuiteStandard) TestAdminDeleteUserUnknown() {
	_, adminHeaders := suite.signUpAdmin()

	r := test.Request(suite.api, suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/admin/users/%s", uuid.New()), nil, adminHeaders)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
