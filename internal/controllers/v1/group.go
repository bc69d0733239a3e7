package v1

import (
	"fmt"
	"net/http"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterGroupRoutes registers the routes for Groups with
// the RouterGroup that is passed.
func (a *API) RegisterGroupRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", a.GetGroups)
		r.POST("", a.CreateGroup)
	}

	// Group with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", a.GetGroup)
		r.DELETE("/:id", a.DeleteGroup)
	}

	// Membership
	{
		r.OPTIONS("/:id/members", httputil.OptionsGetPost)
		r.GET("/:id/members", a.GetGroupMembers)
		r.POST("/:id/members", a.InviteGroupMember)
		r.OPTIONS("/:id/members/accept", httputil.OptionsPost)
		r.POST("/:id/members/accept", a.AcceptGroupInvite)
		r.OPTIONS("/:id/members/decline", httputil.OptionsPost)
		r.POST("/:id/members/decline", a.DeclineGroupInvite)
		r.DELETE("/:id/members/:userId", a.RemoveGroupMember)
	}

	// Shared expenses and debts
	{
		r.OPTIONS("/:id/expenses", httputil.OptionsGetPost)
		r.GET("/:id/expenses", a.GetGroupExpenses)
		r.POST("/:id/expenses", a.SplitExpense)
		r.OPTIONS("/:id/expenses/:expenseId/share", httputil.OptionsGet)
		r.GET("/:id/expenses/:expenseId/share", a.GetExpenseShare)
		r.OPTIONS("/:id/debts", httputil.OptionsGet)
		r.GET("/:id/debts", a.GetGroupDebts)
	}
}

// GroupEditable represents all user configurable parameters
type GroupEditable struct {
	Name string `json:"name" example:"Flat 4B" binding:"required"`
}

type GroupLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/groups/ab4e17fe-02c4-4a0c-a431-54ad80bc79ba"`
	Members  string `json:"members" example:"https://example.com/api/v1/groups/ab4e17fe-02c4-4a0c-a431-54ad80bc79ba/members"`
	Expenses string `json:"expenses" example:"https://example.com/api/v1/groups/ab4e17fe-02c4-4a0c-a431-54ad80bc79ba/expenses"`
	Debts    string `json:"debts" example:"https://example.com/api/v1/groups/ab4e17fe-02c4-4a0c-a431-54ad80bc79ba/debts"`
}

type Group struct {
	models.DefaultModel
	GroupEditable
	Links GroupLinks `json:"links"`
}

func newGroup(c *gin.Context, model models.Group) Group {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/groups/%s", url, model.ID)

	return Group{
		DefaultModel:  model.DefaultModel,
		GroupEditable: GroupEditable{Name: model.Name},
		Links: GroupLinks{
			Self:     self,
			Members:  self + "/members",
			Expenses: self + "/expenses",
			Debts:    self + "/debts",
		},
	}
}

type GroupListResponse struct {
	Data  []Group `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type GroupResponse struct {
	Data  *Group  `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type GroupMember struct {
	UserID   uuid.UUID           `json:"userId" example:"91d5e3a4-c0ff-4b42-8e1a-bd1f5f4f60aa"`
	Username string              `json:"username" example:"amara"`
	Role     models.MemberRole   `json:"role" example:"member"`
	Status   models.MemberStatus `json:"status" example:"active"`
}

type GroupMemberListResponse struct {
	Data  []GroupMember `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type GroupMemberResponse struct {
	Data  *GroupMember `json:"data"`
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// InviteEditable identifies the user to invite.
type InviteEditable struct {
	Username string `json:"username" example:"tunde" binding:"required"`
}

// GetGroups returns the groups the authenticated user is a member of,
// including pending invitations.
func (a *API) GetGroups(c *gin.Context) {
	var memberships []models.GroupMember
	err := models.DB.Where("user_id = ?", userID(c)).Find(&memberships).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupListResponse{Error: &s})
		return
	}

	data := make([]Group, 0, len(memberships))
	for _, membership := range memberships {
		var group models.Group
		err = models.DB.First(&group, membership.GroupID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GroupListResponse{Error: &s})
			return
		}

		data = append(data, newGroup(c, group))
	}

	c.JSON(http.StatusOK, GroupListResponse{Data: data})
}

// CreateGroup creates a new group. The creator becomes an active admin
// member.
func (a *API) CreateGroup(c *gin.Context) {
	var editable GroupEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupResponse{Error: &s})
		return
	}

	group := models.Group{Name: editable.Name}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&group).Error
		if err != nil {
			return err
		}

		return tx.Create(&models.GroupMember{
			GroupID: group.ID,
			UserID:  userID(c),
			Role:    models.MemberRoleAdmin,
			Status:  models.MemberStatusActive,
		}).Error
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupResponse{Error: &s})
		return
	}

	data := newGroup(c, group)
	c.JSON(http.StatusCreated, GroupResponse{Data: &data})
}

// GetGroup returns a single group. Only members can see it.
func (a *API) GetGroup(c *gin.Context) {
	group, _, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupResponse{Error: &s})
		return
	}

	data := newGroup(c, group)
	c.JSON(http.StatusOK, GroupResponse{Data: &data})
}

// DeleteGroup deletes the group with the ID in the URL. Only admins can do
// this.
func (a *API) DeleteGroup(c *gin.Context) {
	group, member, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupResponse{Error: &s})
		return
	}

	if member.Role != models.MemberRoleAdmin {
		s := errNotGroupAdmin.Error()
		c.JSON(http.StatusForbidden, GroupResponse{Error: &s})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("group_id = ?", group.ID).Delete(&models.GroupMember{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&group).Error
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GetGroupMembers returns the members of the group, including pending
// invitations.
func (a *API) GetGroupMembers(c *gin.Context) {
	group, _, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberListResponse{Error: &s})
		return
	}

	var memberships []models.GroupMember
	err = models.DB.Where("group_id = ?", group.ID).Find(&memberships).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberListResponse{Error: &s})
		return
	}

	data := make([]GroupMember, 0, len(memberships))
	for _, membership := range memberships {
		var user models.User
		err = models.DB.First(&user, membership.UserID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GroupMemberListResponse{Error: &s})
			return
		}

		data = append(data, GroupMember{
			UserID:   membership.UserID,
			Username: user.Username,
			Role:     membership.Role,
			Status:   membership.Status,
		})
	}

	c.JSON(http.StatusOK, GroupMemberListResponse{Data: data})
}

// InviteGroupMember invites a user to the group by username. Only admins can
// invite. The invited user gets a pending membership and a notification.
func (a *API) InviteGroupMember(c *gin.Context) {
	group, member, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	if member.Role != models.MemberRoleAdmin {
		s := errNotGroupAdmin.Error()
		c.JSON(http.StatusForbidden, GroupMemberResponse{Error: &s})
		return
	}

	var editable InviteEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.Where("username = ?", editable.Username).First(&user).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	var existing int64
	err = models.DB.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, user.ID).
		Count(&existing).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}
	if existing > 0 {
		s := errMemberAlreadyExists.Error()
		c.JSON(http.StatusConflict, GroupMemberResponse{Error: &s})
		return
	}

	membership := models.GroupMember{
		GroupID: group.ID,
		UserID:  user.ID,
	}
	err = models.DB.Create(&membership).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	message := fmt.Sprintf("You have been invited to join the group '%s'.", group.Name)
	err = a.reconciler.Dispatch(user.ID, models.NotificationSystem, message)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	data := GroupMember{
		UserID:   user.ID,
		Username: user.Username,
		Role:     membership.Role,
		Status:   membership.Status,
	}
	c.JSON(http.StatusCreated, GroupMemberResponse{Data: &data})
}

// AcceptGroupInvite turns the authenticated user's pending membership into
// an active one.
func (a *API) AcceptGroupInvite(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, GroupMemberResponse{Error: &s})
		return
	}

	var membership models.GroupMember
	err = models.DB.
		Where(&models.GroupMember{GroupID: uri.ID.UUID, UserID: userID(c), Status: models.MemberStatusPending}).
		First(&membership).Error
	if err != nil {
		s := errNoPendingInvite.Error()
		c.JSON(http.StatusNotFound, GroupMemberResponse{Error: &s})
		return
	}

	err = models.DB.Model(&membership).Update("status", models.MemberStatusActive).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.First(&user, membership.UserID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	data := GroupMember{
		UserID:   membership.UserID,
		Username: user.Username,
		Role:     membership.Role,
		Status:   models.MemberStatusActive,
	}
	c.JSON(http.StatusOK, GroupMemberResponse{Data: &data})
}

// DeclineGroupInvite deletes the authenticated user's pending membership.
func (a *API) DeclineGroupInvite(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, GroupMemberResponse{Error: &s})
		return
	}

	var membership models.GroupMember
	err = models.DB.
		Where(&models.GroupMember{GroupID: uri.ID.UUID, UserID: userID(c), Status: models.MemberStatusPending}).
		First(&membership).Error
	if err != nil {
		s := errNoPendingInvite.Error()
		c.JSON(http.StatusNotFound, GroupMemberResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&membership).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// RemoveGroupMember removes a member from the group. Members can remove
// themselves, admins can remove anyone.
func (a *API) RemoveGroupMember(c *gin.Context) {
	group, member, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	target, err := httputil.UUIDFromString(c.Param("userId"))
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GroupMemberResponse{Error: &s})
		return
	}

	if target != userID(c) && member.Role != models.MemberRoleAdmin {
		s := errNotGroupAdmin.Error()
		c.JSON(http.StatusForbidden, GroupMemberResponse{Error: &s})
		return
	}

	var membership models.GroupMember
	err = models.DB.Where("group_id = ? AND user_id = ?", group.ID, target).First(&membership).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&membership).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupMemberResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// memberGroup loads the group in the URL and the authenticated user's
// active membership in it.
func (a *API) memberGroup(c *gin.Context) (models.Group, models.GroupMember, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Group{}, models.GroupMember{}, httputil.ErrInvalidUUID
	}

	var group models.Group
	err = models.DB.First(&group, uri.ID.UUID).Error
	if err != nil {
		return models.Group{}, models.GroupMember{}, err
	}

	member, err := models.ActiveMember(models.DB, group.ID, userID(c))
	if err != nil {
		return models.Group{}, models.GroupMember{}, err
	}

	return group, member, nil
}
