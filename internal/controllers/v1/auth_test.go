package v1_test

import (
	"net/http"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestRegister() {
	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/register", v1.RegisterEditable{
		Username: "amara",
		Email:    "amara@example.com",
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.RegisterResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "amara", response.Data.Username)
	assert.Equal(suite.T(), "amara@example.com", response.Data.Email)
}

func (suite *TestSuiteStandard) TestRegisterUsernameTaken() {
	body := v1.RegisterEditable{
		Username: "amara",
		Email:    "amara@example.com",
		Password: "correct horse battery staple",
	}

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/register", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	body.Email = "other@example.com"
	r = test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/register", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestRegisterInvalidBody() {
	tests := []struct {
		name string
		body string
	}{
		{"Broken JSON", `{ broken`},
		{"Missing username", `{ "email": "amara@example.com", "password": "correct horse battery staple" }`},
		{"Invalid email", `{ "username": "amara", "email": "nope", "password": "correct horse battery staple" }`},
		{"Password too short", `{ "username": "amara", "email": "amara@example.com", "password": "short" }`},
	}

	for _, tt := range tests {
		r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/register", tt.body)
		assert.Equal(suite.T(), http.StatusBadRequest, r.Code, tt.name)
	}
}

func (suite *TestSuiteStandard) TestLogin() {
	user, _ := suite.signUp()

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Username: user.Username,
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LoginResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Bearer", response.Data.TokenType)
	assert.NotEmpty(suite.T(), response.Data.AccessToken)
	assert.Equal(suite.T(), user.Username, response.Data.User.Username)
}

func (suite *TestSuiteStandard) TestLoginWrongPassword() {
	user, _ := suite.signUp()

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Username: user.Username,
		Password: "wrong password entirely",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestLoginUnknownUser() {
	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Username: "nobody",
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAuthenticationRequired() {
	for _, path := range []string{
		"/v1/categories",
		"/v1/expenses",
		"/v1/budgets",
		"/v1/category-budgets",
		"/v1/notifications",
		"/v1/groups",
		"/v1/debts",
		"/v1/analytics/summary",
	} {
		r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com"+path, nil)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
	}
}
