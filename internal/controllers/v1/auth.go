package v1

import (
	"net/http"

	"github.com/Incognitol07/expense-tracker-api/internal/auth"
	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the routes for authentication with
// the RouterGroup that is passed.
func (a *API) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", a.Register)
	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", a.Login)
}

// RegisterEditable represents all user configurable parameters for signup
type RegisterEditable struct {
	Username string `json:"username" example:"amara" binding:"required"`
	Email    string `json:"email" example:"amara@example.com" binding:"required,email"`
	Password string `json:"password" example:"hunter2" binding:"required,min=8"`
}

type User struct {
	models.DefaultModel
	Username string `json:"username" example:"amara"`
	Email    string `json:"email" example:"amara@example.com"`
}

func newUser(model models.User) User {
	return User{
		DefaultModel: model.DefaultModel,
		Username:     model.Username,
		Email:        model.Email,
	}
}

type RegisterResponse struct {
	Data  *User   `json:"data"`
	Error *string `json:"error" example:"the username is already taken"`
}

type LoginEditable struct {
	Username string `json:"username" example:"amara" binding:"required"`
	Password string `json:"password" example:"hunter2" binding:"required"`
}

type LoginResponse struct {
	Data  *Token  `json:"data"`
	Error *string `json:"error" example:"the username or password is incorrect"`
}

type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	User        User   `json:"user"`
}

// Register creates a new user account.
func (a *API) Register(c *gin.Context) {
	var editable RegisterEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RegisterResponse{Error: &s})
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

// Login verifies the credentials and returns an access token.
func (a *API) Login(c *gin.Context) {
	var editable LoginEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LoginResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.Where("username = ?", editable.Username).First(&user).Error
	if err != nil || !auth.CheckPassword(user.Password, editable.Password) {
		// Same response for unknown user and wrong password so that
		// usernames cannot be enumerated.
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
