package v1

import (
	"github.com/Incognitol07/expense-tracker-api/internal/auth"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	et_uuid "github.com/Incognitol07/expense-tracker-api/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type URIID struct {
	ID et_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// userID returns the authenticated user's ID.
func userID(c *gin.Context) uuid.UUID {
	return auth.UserID(c)
}

// getUserResource loads a resource by ID, scoped to the authenticated user.
// Resources of other users are indistinguishable from missing ones.
func getUserResource[T any](c *gin.Context, id et_uuid.UUID) (T, error) {
	var resource T

	err := models.DB.Where("id = ? AND user_id = ?", id.UUID, userID(c)).First(&resource).Error
	if err != nil {
		return resource, err
	}

	return resource, nil
}
