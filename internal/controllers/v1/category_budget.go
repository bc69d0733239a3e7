package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterCategoryBudgetRoutes registers the routes for category budgets
// with the RouterGroup that is passed.
func (a *API) RegisterCategoryBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", a.GetCategoryBudgets)
		r.POST("", a.CreateCategoryBudget)
	}

	r.OPTIONS("/status", httputil.OptionsGet)
	r.GET("/status", a.GetCategoryBudgetStatus)

	// Category budget with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", a.GetCategoryBudget)
		r.PATCH("/:id", a.UpdateCategoryBudget)
		r.DELETE("/:id", a.DeleteCategoryBudget)
		r.OPTIONS("/:id/deactivate", httputil.OptionsPost)
		r.POST("/:id/deactivate", a.DeactivateCategoryBudget)
	}
}

// CategoryBudgetEditable represents all user configurable parameters
type CategoryBudgetEditable struct {
	CategoryID  uuid.UUID       `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	AmountLimit decimal.Decimal `json:"amountLimit" example:"150"`
	StartDate   time.Time       `json:"startDate" example:"2026-08-01T00:00:00Z"`
	EndDate     time.Time       `json:"endDate" example:"2026-08-31T00:00:00Z"`
}

func (editable CategoryBudgetEditable) model() models.CategoryBudget {
	return models.CategoryBudget{
		CategoryID:  editable.CategoryID,
		AmountLimit: editable.AmountLimit,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
	}
}

type CategoryBudgetLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/category-budgets/44e447f7-91b5-4b3a-a5a2-f0c0d9a367aa"`
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`
}

type CategoryBudget struct {
	models.DefaultModel
	CategoryBudgetEditable
	Status models.BudgetStatus `json:"status" example:"active"`
	Links  CategoryBudgetLinks `json:"links"`
}

func newCategoryBudget(c *gin.Context, model models.CategoryBudget) CategoryBudget {
	url := c.GetString(string(models.DBContextURL))

	return CategoryBudget{
		DefaultModel: model.DefaultModel,
		CategoryBudgetEditable: CategoryBudgetEditable{
			CategoryID:  model.CategoryID,
			AmountLimit: model.AmountLimit,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
		},
		Status: model.Status,
		Links: CategoryBudgetLinks{
			Self:     fmt.Sprintf("%s/v1/category-budgets/%s", url, model.ID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type CategoryBudgetListResponse struct {
	Data  []CategoryBudget `json:"data"`
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type CategoryBudgetResponse struct {
	Data  *CategoryBudget `json:"data"`
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// CategoryBudgetStatus is the reconciled state of one category budget.
type CategoryBudgetStatus struct {
	BudgetID     string          `json:"budgetId" example:"44e447f7-91b5-4b3a-a5a2-f0c0d9a367aa"`
	CategoryID   string          `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	CategoryName string          `json:"categoryName" example:"Groceries"`
	AmountLimit  decimal.Decimal `json:"amountLimit" example:"150"`
	Spent        decimal.Decimal `json:"spent" example:"80"`
	Remaining    decimal.Decimal `json:"remaining" example:"70"`
	Tier         string          `json:"tier" example:"within limits"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
}

type CategoryBudgetStatusResponse struct {
	Data  []CategoryBudgetStatus `json:"data"`
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// GetCategoryBudgets returns all category budgets of the authenticated user.
func (a *API) GetCategoryBudgets(c *gin.Context) {
	var budgets []models.CategoryBudget
	err := models.DB.Where("user_id = ?", userID(c)).Order("start_date DESC").Find(&budgets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetListResponse{Error: &s})
		return
	}

	data := make([]CategoryBudget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newCategoryBudget(c, budget))
	}

	c.JSON(http.StatusOK, CategoryBudgetListResponse{Data: data})
}

// CreateCategoryBudget creates a new category budget for the authenticated
// user. The category must belong to the user.
func (a *API) CreateCategoryBudget(c *gin.Context) {
	var editable CategoryBudgetEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	var category models.Category
	err = models.DB.Where("id = ? AND user_id = ?", editable.CategoryID, userID(c)).First(&category).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	budget := editable.model()
	budget.UserID = userID(c)

	err = models.DB.Create(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	a.checkBudgets(budget.UserID)

	data := newCategoryBudget(c, budget)
	c.JSON(http.StatusCreated, CategoryBudgetResponse{Data: &data})
}

// GetCategoryBudgetStatus reconciles every active category budget of the
// user against the matching expenses.
func (a *API) GetCategoryBudgetStatus(c *gin.Context) {
	budgets, err := models.ActiveCategoryBudgets(models.DB, userID(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetStatusResponse{Error: &s})
		return
	}

	data := make([]CategoryBudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		remaining, err := a.reconciler.CategoryRemaining(budget)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CategoryBudgetStatusResponse{Error: &s})
			return
		}

		var category models.Category
		err = models.DB.First(&category, budget.CategoryID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CategoryBudgetStatusResponse{Error: &s})
			return
		}

		data = append(data, CategoryBudgetStatus{
			BudgetID:     budget.ID.String(),
			CategoryID:   budget.CategoryID.String(),
			CategoryName: category.Name,
			AmountLimit:  budget.AmountLimit,
			Spent:        budget.AmountLimit.Sub(remaining),
			Remaining:    remaining,
			Tier:         reconcile.BudgetTier(remaining, budget.AmountLimit),
			StartDate:    budget.StartDate,
			EndDate:      budget.EndDate,
		})
	}

	c.JSON(http.StatusOK, CategoryBudgetStatusResponse{Data: data})
}

// GetCategoryBudget returns a single category budget.
func (a *API) GetCategoryBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, CategoryBudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.CategoryBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	data := newCategoryBudget(c, budget)
	c.JSON(http.StatusOK, CategoryBudgetResponse{Data: &data})
}

// UpdateCategoryBudget updates the category budget with the ID in the URL.
// Deactivated budgets cannot be updated.
func (a *API) UpdateCategoryBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, CategoryBudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.CategoryBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CategoryBudgetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	var data CategoryBudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	err = models.DB.Model(&budget).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	a.checkBudgets(budget.UserID)

	response := newCategoryBudget(c, budget)
	c.JSON(http.StatusOK, CategoryBudgetResponse{Data: &response})
}

// DeactivateCategoryBudget retires the category budget with the ID in the
// URL.
func (a *API) DeactivateCategoryBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, CategoryBudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.CategoryBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	err = models.DB.Model(&budget).UpdateColumn("status", models.BudgetStatusDeactivated).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	budget.Status = models.BudgetStatusDeactivated
	response := newCategoryBudget(c, budget)
	c.JSON(http.StatusOK, CategoryBudgetResponse{Data: &response})
}

// DeleteCategoryBudget deletes the category budget with the ID in the URL.
func (a *API) DeleteCategoryBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, CategoryBudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.CategoryBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryBudgetResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
