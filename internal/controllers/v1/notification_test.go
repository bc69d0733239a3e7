package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) createTestNotification(user v1.User, message string) models.Notification {
	notification := models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationAlert,
		Message: message,
	}
	require.NoError(suite.T(), models.DB.Create(&notification).Error)

	return notification
}

func (suite *TestSuiteStandard) TestGetNotifications() {
	user, headers := suite.signUp()
	suite.createTestNotification(user, "first")
	suite.createTestNotification(user, "second")

	// Notifications of other users stay invisible.
	other, _ := suite.signUp()
	suite.createTestNotification(other, "not yours")

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/notifications", nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestGetNotificationsUnreadOnly() {
	user, headers := suite.signUp()
	read := suite.createTestNotification(user, "already read")
	require.NoError(suite.T(), models.DB.Model(&read).Update("is_read", true).Error)
	suite.createTestNotification(user, "unread")

	r := test.Request(suite.api, suite.T(), http.MethodGet, "http://example.com/v1/notifications?unread=true", nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "unread", response.Data[0].Message)
}

func (suite *TestSuiteStandard) TestReadNotification() {
	user, headers := suite.signUp()
	notification := suite.createTestNotification(user, "budget exceeded")

	r := test.Request(suite.api, suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/notifications/%s/read", notification.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.IsRead)
}

func (suite *TestSuiteStandard) TestReadAllNotifications() {
	user, headers := suite.signUp()
	suite.createTestNotification(user, "first")
	suite.createTestNotification(user, "second")
	suite.createTestNotification(user, "third")

	r := test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/notifications/read-all", nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ReadAllResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), int64(3), response.Data.Updated)

	// A second run has nothing left to update.
	r = test.Request(suite.api, suite.T(), http.MethodPost, "http://example.com/v1/notifications/read-all", nil, headers)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), int64(0), response.Data.Updated)
}

func (suite *TestSuiteStandard) TestDeleteNotification() {
	user, headers := suite.signUp()
	notification := suite.createTestNotification(user, "old news")

	r := test.Request(suite.api, suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/notifications/%s", notification.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.api, suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/notifications/%s", notification.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestNotificationOfOtherUser() {
	other, _ := suite.signUp()
	notification := suite.createTestNotification(other, "not yours")

	_, headers := suite.signUp()
	r := test.Request(suite.api, suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/notifications/%s", notification.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
