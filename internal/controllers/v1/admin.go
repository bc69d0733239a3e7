package v1

import (
	"crypto/subtle"
	"net/http"

	"github.com/Incognitol07/expense-tracker-api/internal/auth"
	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the routes for administration with
// the RouterGroup that is passed.
//
// Registration and login are open, registration is gated by the master key.
// Everything else requires a token of an admin account.
func (a *API) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", a.RegisterAdmin)
	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", a.LoginAdmin)

	authed := r.Group("")
	authed.Use(a.Authenticated(), a.adminOnly())
	{
		authed.OPTIONS("/users", httputil.OptionsGet)
		authed.GET("/users", a.GetAllUsers)
		authed.DELETE("/users/:id", a.DeleteUser)
		authed.OPTIONS("/expenses", httputil.OptionsGet)
		authed.GET("/expenses", a.GetAllExpenses)
	}
}

// adminOnly rejects requests from accounts without the admin flag. It must
// be registered behind the authentication middleware.
func (a *API) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		err := models.DB.First(&user, auth.UserID(c)).Error
		if err != nil || !user.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errNotAdmin.Error()})
			return
		}

		c.Next()
	}
}

// AdminRegisterEditable represents all user configurable parameters for
// admin signup. The master key has to match the one the server was
// configured with.
type AdminRegisterEditable struct {
	Username  string `json:"username" example:"amara" binding:"required"`
	Email     string `json:"email" example:"amara@example.com" binding:"required,email"`
	Password  string `json:"password" example:"hunter2" binding:"required,min=8"`
	MasterKey string `json:"masterKey" example:"wrzpfktqcrzphktc" binding:"required"`
}

// RegisterAdmin creates a new admin account. It requires the master key, if
// the server is running without one, admin registration is disabled.
func (a *API) RegisterAdmin(c *gin.Context) {
	var editable AdminRegisterEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RegisterResponse{Error: &s})
		return
	}

	if a.masterKey == "" || subtle.ConstantTimeCompare([]byte(editable.MasterKey), []byte(a.masterKey)) != 1 {
		s := errMasterKeyInvalid.Error()
		c.JSON(http.StatusForbidden, RegisterResponse{Error: &s})
		return
	}

	hash, err := auth.HashPassword(editable.Password)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, RegisterResponse{Error: &s})
		return
	}

	user := models.User{
		Username: editable.Username,
		Email:    editable.Email,
		Password: hash,
		Admin:    true,
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RegisterResponse{Error: &s})
		return
	}

	data := newUser(user)
	c.JSON(http.StatusCreated, RegisterResponse{Data: &data})
}

// LoginAdmin verifies the credentials of an admin account and returns an
// access token. Regular accounts get the same response as wrong credentials
// so that admin usernames cannot be enumerated.
func (a *API) LoginAdmin(c *gin.Context) {
	var editable LoginEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.Where("username = ?", editable.Username).First(&user).Error
	if err != nil || !user.Admin || !auth.CheckPassword(user.Password, editable.Password) {
		s := errCredentialsInvalid.Error()
		c.JSON(http.StatusUnauthorized, LoginResponse{Error: &s})
		return
	}

	token, err := auth.NewToken(a.secret, user.ID)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Data: &Token{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        newUser(user),
	}})
}

type AdminUserListResponse struct {
	Data  []User  `json:"data"`
	Error *string `json:"error" example:"an error occurred on the server during your request"`
}

// GetAllUsers returns all user accounts.
func (a *API) GetAllUsers(c *gin.Context) {
	var users []models.User
	err := models.DB.Order("username ASC").Find(&users).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AdminUserListResponse{Error: &s})
		return
	}

	data := make([]User, 0, len(users))
	for _, user := range users {
		data = append(data, newUser(user))
	}

	c.JSON(http.StatusOK, AdminUserListResponse{Data: data})
}

type AdminExpenseListResponse struct {
	Data  []Expense `json:"data"`
	Error *string   `json:"error" example:"an error occurred on the server during your request"`
}

// GetAllExpenses returns the expenses of all users.
func (a *API) GetAllExpenses(c *gin.Context) {
	var expenses []models.Expense
	err := models.DB.Order("date DESC").Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AdminExpenseListResponse{Error: &s})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, AdminExpenseListResponse{Data: data})
}

// DeleteUser deletes a user account together with everything it owns.
func (a *API) DeleteUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, RegisterResponse{Error: &s})
		return
	}

	err = models.PurgeUser(models.DB, uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RegisterResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
