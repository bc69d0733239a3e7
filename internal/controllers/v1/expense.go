package v1

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterExpenseRoutes registers the routes for Expenses with
// the RouterGroup that is passed.
func (a *API) RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", a.GetExpenses)
		r.POST("", a.CreateExpense)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", a.GetExpense)
		r.PATCH("/:id", a.UpdateExpense)
		r.DELETE("/:id", a.DeleteExpense)
	}
}

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	Amount      decimal.Decimal `json:"amount" example:"14.50"`
	Description string          `json:"description" example:"Lunch at the corner place" default:""`
	Date        time.Time       `json:"date" example:"2026-08-20T00:00:00Z"`
	CategoryID  uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
}

func (editable ExpenseEditable) model(userID uuid.UUID) models.Expense {
	return models.Expense{
		Amount:      editable.Amount,
		Description: editable.Description,
		Date:        editable.Date,
		CategoryID:  editable.CategoryID,
		UserID:      userID,
	}
}

type ExpenseLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/expenses/d4b09179-7f35-4d85-aabb-6bbbef04b2a0"`
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinks `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			Amount:      model.Amount,
			Description: model.Description,
			Date:        model.Date,
			CategoryID:  model.CategoryID,
		},
		Links: ExpenseLinks{
			Self:     fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// ExpenseQueryFilter contains the fields the expense list can be filtered by.
type ExpenseQueryFilter struct {
	CategoryID  string `form:"category" filterField:"false"`
	Description string `form:"description" filterField:"false"`
	FromDate    string `form:"fromDate" filterField:"false"`
	UntilDate   string `form:"untilDate" filterField:"false"`
	Offset      uint   `form:"offset" filterField:"false"` // The offset of the first Expense returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`  // Maximum number of Expenses to return. Defaults to 50.
}

// GetExpenses returns the expenses of the authenticated user, most recent
// first, optionally filtered by category, date range and description.
func (a *API) GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &s})
		return
	}

	query := models.DB.Where("user_id = ?", userID(c)).Order("date DESC")

	categoryID, err := httputil.UUIDFromString(filter.CategoryID)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &s})
		return
	}
	if categoryID != uuid.Nil {
		query = query.Where("category_id = ?", categoryID)
	}

	if filter.Description != "" {
		query = query.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	}

	fromDate, err := httputil.DateFromString(filter.FromDate)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &s})
		return
	}
	if !fromDate.IsZero() {
		query = query.Where("date >= ?", fromDate)
	}

	untilDate, err := httputil.DateFromString(filter.UntilDate)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &s})
		return
	}
	if !untilDate.IsZero() {
		query = query.Where("date <= ?", untilDate)
	}

	// The offset defaults to 0, no check needed.
	query = query.Offset(int(filter.Offset))

	// Default to 50 expenses and set the limit.
	_, setFields := httputil.GetURLFields(c.Request.URL, filter)
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	query = query.Limit(limit)

	var expenses []models.Expense
	err = query.Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &s})
		return
	}

	var count int64
	err = query.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &s})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// CreateExpense creates a new expense and schedules a budget check.
func (a *API) CreateExpense(c *gin.Context) {
	var editable ExpenseEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	expense := editable.model(userID(c))
	err = models.DB.Create(&expense).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	a.checkBudgets(expense.UserID)

	data := newExpense(c, expense)
	c.JSON(http.StatusCreated, ExpenseResponse{Data: &data})
}

// GetExpense returns a single expense.
func (a *API) GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &s})
		return
	}

	expense, err := getUserResource[models.Expense](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// UpdateExpense updates the expense with the ID in the URL and schedules a
// budget check.
func (a *API) UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &s})
		return
	}

	expense, err := getUserResource[models.Expense](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	err = models.DB.Model(&expense).Select("", updateFields...).Updates(data.model(expense.UserID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	a.checkBudgets(expense.UserID)

	response := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &response})
}

// DeleteExpense deletes the expense with the ID in the URL and schedules a
// budget check.
func (a *API) DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenseResponse{Error: &s})
		return
	}

	expense, err := getUserResource[models.Expense](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&expense).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &s})
		return
	}

	a.checkBudgets(expense.UserID)

	c.JSON(http.StatusNoContent, nil)
}
