package v1

import (
	"net/http"
	"slices"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the routes for Notifications with
// the RouterGroup that is passed.
func (a *API) RegisterNotificationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGet)
		r.GET("", a.GetNotifications)
	}

	r.OPTIONS("/read-all", httputil.OptionsPost)
	r.POST("/read-all", a.ReadAllNotifications)

	// Notification with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", a.GetNotification)
		r.DELETE("/:id", a.DeleteNotification)
		r.OPTIONS("/:id/read", httputil.OptionsPost)
		r.POST("/:id/read", a.ReadNotification)
	}
}

type Notification struct {
	models.DefaultModel
	Type    models.NotificationType `json:"type" example:"ALERT"`
	Message string                  `json:"message" example:"You've exceeded your budget of 200 by 50."`
	IsRead  bool                    `json:"isRead" example:"false"`
}

func newNotification(model models.Notification) Notification {
	return Notification{
		DefaultModel: model.DefaultModel,
		Type:         model.Type,
		Message:      model.Message,
		IsRead:       model.IsRead,
	}
}

type NotificationListResponse struct {
	Data       []Notification `json:"data"`
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination    `json:"pagination"`
}

type NotificationResponse struct {
	Data  *Notification `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type ReadAllResponse struct {
	Data  *ReadAllObject `json:"data"`
	Error *string        `json:"error"`
}

type ReadAllObject struct {
	Updated int64 `json:"updated" example:"3"`
}

// NotificationQueryFilter contains the fields the notification list can be
// filtered by.
type NotificationQueryFilter struct {
	Unread bool `form:"unread" filterField:"false"`
	Offset uint `form:"offset" filterField:"false"` // The offset of the first Notification returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of Notifications to return. Defaults to 50.
}

// GetNotifications returns the notifications of the authenticated user,
// newest first. With ?unread=true only unread ones are returned.
func (a *API) GetNotifications(c *gin.Context) {
	var filter NotificationQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, NotificationListResponse{Error: &s})
		return
	}

	query := models.DB.Where("user_id = ?", userID(c)).Order("created_at DESC")
	if filter.Unread {
		query = query.Where("is_read = ?", false)
	}

	// The offset defaults to 0, no check needed.
	query = query.Offset(int(filter.Offset))

	// Default to 50 notifications and set the limit.
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	query = query.Limit(limit)

	var notifications []models.Notification
	err = query.Find(&notifications).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &s})
		return
	}

	var count int64
	err = query.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &s})
		return
	}

	data := make([]Notification, 0, len(notifications))
	for _, notification := range notifications {
		data = append(data, newNotification(notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetNotification returns a single notification.
func (a *API) GetNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, NotificationResponse{Error: &s})
		return
	}

	notification, err := getUserResource[models.Notification](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &s})
		return
	}

	data := newNotification(notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &data})
}

// ReadNotification marks the notification with the ID in the URL as read.
func (a *API) ReadNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, NotificationResponse{Error: &s})
		return
	}

	notification, err := getUserResource[models.Notification](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &s})
		return
	}

	err = models.DB.Model(&notification).Update("is_read", true).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &s})
		return
	}

	notification.IsRead = true
	data := newNotification(notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &data})
}

// ReadAllNotifications marks all unread notifications of the user as read.
func (a *API) ReadAllNotifications(c *gin.Context) {
	result := models.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID(c), false).
		Update("is_read", true)
	if result.Error != nil {
		s := result.Error.Error()
		c.JSON(status(result.Error), ReadAllResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, ReadAllResponse{Data: &ReadAllObject{Updated: result.RowsAffected}})
}

// DeleteNotification deletes the notification with the ID in the URL.
func (a *API) DeleteNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, NotificationResponse{Error: &s})
		return
	}

	notification, err := getUserResource[models.Notification](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&notification).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
