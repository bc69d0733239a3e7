package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterBudgetRoutes registers the routes for general budgets with
// the RouterGroup that is passed.
func (a *API) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", a.GetBudgets)
		r.POST("", a.CreateBudget)
	}

	r.OPTIONS("/status", httputil.OptionsGet)
	r.GET("/status", a.GetBudgetStatus)

	// Budget with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", a.GetBudget)
		r.PATCH("/:id", a.UpdateBudget)
		r.DELETE("/:id", a.DeleteBudget)
		r.OPTIONS("/:id/deactivate", httputil.OptionsPost)
		r.POST("/:id/deactivate", a.DeactivateBudget)
	}
}

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	AmountLimit decimal.Decimal `json:"amountLimit" example:"500"`
	StartDate   time.Time       `json:"startDate" example:"2026-08-01T00:00:00Z"`
	EndDate     time.Time       `json:"endDate" example:"2026-08-31T00:00:00Z"`
}

func (editable BudgetEditable) model() models.GeneralBudget {
	return models.GeneralBudget{
		AmountLimit: editable.AmountLimit,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
	}
}

type BudgetLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	Status string `json:"status" example:"https://example.com/api/v1/budgets/status"`
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Status models.BudgetStatus `json:"status" example:"active"`
	Links  BudgetLinks         `json:"links"`
}

func newBudget(c *gin.Context, model models.GeneralBudget) Budget {
	url := c.GetString(string(models.DBContextURL))

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			AmountLimit: model.AmountLimit,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
		},
		Status: model.Status,
		Links: BudgetLinks{
			Self:   fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Status: fmt.Sprintf("%s/v1/budgets/status", url),
		},
	}
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// BudgetStatus is the reconciled state of a budget: how much of the limit
// is spent and what remains. Remaining is signed, a negative value means
// the budget is exceeded by that amount.
type BudgetStatus struct {
	BudgetID    string          `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	AmountLimit decimal.Decimal `json:"amountLimit" example:"500"`
	Spent       decimal.Decimal `json:"spent" example:"372.50"`
	Remaining   decimal.Decimal `json:"remaining" example:"127.50"`
	Tier        string          `json:"tier" example:"within limits"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
}

type BudgetStatusResponse struct {
	Data  *BudgetStatus `json:"data"`
	Error *string       `json:"error" example:"there is no active budget"`
}

// GetBudgets returns all general budgets of the authenticated user.
func (a *API) GetBudgets(c *gin.Context) {
	var budgets []models.GeneralBudget
	err := models.DB.Where("user_id = ?", userID(c)).Order("start_date DESC").Find(&budgets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &s})
		return
	}

	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// CreateBudget creates a new general budget for the authenticated user.
func (a *API) CreateBudget(c *gin.Context) {
	var editable BudgetEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	budget := editable.model()
	budget.UserID = userID(c)

	err = models.DB.Create(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	a.checkBudgets(budget.UserID)

	data := newBudget(c, budget)
	c.JSON(http.StatusCreated, BudgetResponse{Data: &data})
}

// GetBudgetStatus reconciles the user's active general budget against the
// expenses in its window.
func (a *API) GetBudgetStatus(c *gin.Context) {
	budget, ok, err := models.ActiveGeneralBudget(models.DB, userID(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetStatusResponse{Error: &s})
		return
	}
	if !ok {
		s := "there is no active budget"
		c.JSON(http.StatusNotFound, BudgetStatusResponse{Error: &s})
		return
	}

	remaining, err := a.reconciler.GeneralRemaining(budget)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetStatusResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, BudgetStatusResponse{Data: &BudgetStatus{
		BudgetID:    budget.ID.String(),
		AmountLimit: budget.AmountLimit,
		Spent:       budget.AmountLimit.Sub(remaining),
		Remaining:   remaining,
		Tier:        reconcile.BudgetTier(remaining, budget.AmountLimit),
		StartDate:   budget.StartDate,
		EndDate:     budget.EndDate,
	}})
}

// GetBudget returns a single general budget.
func (a *API) GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.GeneralBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// UpdateBudget updates the general budget with the ID in the URL.
// Deactivated budgets cannot be updated.
func (a *API) UpdateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.GeneralBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	err = models.DB.Model(&budget).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	a.checkBudgets(budget.UserID)

	response := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &response})
}

// DeactivateBudget retires the budget with the ID in the URL. Deactivated
// budgets are excluded from reconciliation and overlap checks.
func (a *API) DeactivateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.GeneralBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	err = models.DB.Model(&budget).UpdateColumn("status", models.BudgetStatusDeactivated).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	budget.Status = models.BudgetStatusDeactivated
	response := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &response})
}

// DeleteBudget deletes the general budget with the ID in the URL.
func (a *API) DeleteBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, BudgetResponse{Error: &s})
		return
	}

	budget, err := getUserResource[models.GeneralBudget](c, uri.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	err = models.DB.Delete(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &s})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
