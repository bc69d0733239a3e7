package v1

import (
	"net/http"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterAnalyticsRoutes registers the routes for analytics with
// the RouterGroup that is passed.
func (a *API) RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", httputil.OptionsGet)
	r.GET("/summary", a.GetSummary)
	r.OPTIONS("/budget-adherence", httputil.OptionsGet)
	r.GET("/budget-adherence", a.GetBudgetAdherence)
}

// SummaryQueryFilter bounds the summary to a date range. Both bounds are
// optional.
type SummaryQueryFilter struct {
	FromDate  string `form:"fromDate" filterField:"false"`
	UntilDate string `form:"untilDate" filterField:"false"`
}

type CategorySummary struct {
	CategoryID   string          `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	CategoryName string          `json:"categoryName" example:"Groceries"`
	Total        decimal.Decimal `json:"total" example:"182.30"`
	Count        int             `json:"count" example:"7"`
}

type Summary struct {
	Total      decimal.Decimal   `json:"total" example:"421.80"`
	Count      int               `json:"count" example:"19"`
	Categories []CategorySummary `json:"categories"`
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`
	Error *string  `json:"error" example:"the specified date is not valid, it must be formatted as 2006-01-02 or RFC 3339"`
}

// BudgetAdherence compares one budget's limit against what was actually
// spent in its window.
type BudgetAdherence struct {
	BudgetID     string          `json:"budgetId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	CategoryName string          `json:"categoryName,omitempty" example:"Groceries"`
	AmountLimit  decimal.Decimal `json:"amountLimit" example:"500"`
	Spent        decimal.Decimal `json:"spent" example:"372.50"`
	Remaining    decimal.Decimal `json:"remaining" example:"127.50"`
	Tier         string          `json:"tier" example:"within limits"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
}

type BudgetAdherenceObject struct {
	General  []BudgetAdherence `json:"general"`
	Category []BudgetAdherence `json:"category"`
}

type BudgetAdherenceResponse struct {
	Data  *BudgetAdherenceObject `json:"data"`
	Error *string                `json:"error" example:"the specified date is not valid, it must be formatted as 2006-01-02 or RFC 3339"`
}

// GetSummary returns the user's spending in the date range, totalled and
// broken down by category.
func (a *API) GetSummary(c *gin.Context) {
	var filter SummaryQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{Error: &s})
		return
	}

	query := models.DB.Where("user_id = ?", userID(c))

	fromDate, err := httputil.DateFromString(filter.FromDate)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{Error: &s})
		return
	}
	if !fromDate.IsZero() {
		query = query.Where("date >= ?", fromDate)
	}

	untilDate, err := httputil.DateFromString(filter.UntilDate)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{Error: &s})
		return
	}
	if !untilDate.IsZero() {
		query = query.Where("date <= ?", untilDate)
	}

	var expenses []models.Expense
	err = query.Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &s})
		return
	}

	summary := Summary{Categories: []CategorySummary{}}
	perCategory := make(map[string]*CategorySummary)

	for _, expense := range expenses {
		summary.Total = summary.Total.Add(expense.Amount)
		summary.Count++

		id := expense.CategoryID.String()
		entry, ok := perCategory[id]
		if !ok {
			var category models.Category
			err = models.DB.First(&category, expense.CategoryID).Error
			if err != nil {
				s := err.Error()
				c.JSON(status(err), SummaryResponse{Error: &s})
				return
			}

			entry = &CategorySummary{CategoryID: id, CategoryName: category.Name}
			perCategory[id] = entry
		}

		entry.Total = entry.Total.Add(expense.Amount)
		entry.Count++
	}

	for _, entry := range perCategory {
		summary.Categories = append(summary.Categories, *entry)
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

// GetBudgetAdherence reconciles every budget of the user, active and
// deactivated, against the expenses of its window.
func (a *API) GetBudgetAdherence(c *gin.Context) {
	data := BudgetAdherenceObject{
		General:  []BudgetAdherence{},
		Category: []BudgetAdherence{},
	}

	var general []models.GeneralBudget
	err := models.DB.Where("user_id = ?", userID(c)).Order("start_date DESC").Find(&general).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetAdherenceResponse{Error: &s})
		return
	}

	for _, budget := range general {
		remaining, err := a.reconciler.GeneralRemaining(budget)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetAdherenceResponse{Error: &s})
			return
		}

		data.General = append(data.General, BudgetAdherence{
			BudgetID:    budget.ID.String(),
			AmountLimit: budget.AmountLimit,
			Spent:       budget.AmountLimit.Sub(remaining),
			Remaining:   remaining,
			Tier:        reconcile.BudgetTier(remaining, budget.AmountLimit),
			StartDate:   budget.StartDate,
			EndDate:     budget.EndDate,
		})
	}

	var category []models.CategoryBudget
	err = models.DB.Where("user_id = ?", userID(c)).Order("start_date DESC").Find(&category).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetAdherenceResponse{Error: &s})
		return
	}

	for _, budget := range category {
		remaining, err := a.reconciler.CategoryRemaining(budget)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetAdherenceResponse{Error: &s})
			return
		}

		var cat models.Category
		err = models.DB.First(&cat, budget.CategoryID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetAdherenceResponse{Error: &s})
			return
		}

		data.Category = append(data.Category, BudgetAdherence{
			BudgetID:     budget.ID.String(),
			CategoryName: cat.Name,
			AmountLimit:  budget.AmountLimit,
			Spent:        budget.AmountLimit.Sub(remaining),
			Remaining:    remaining,
			Tier:         reconcile.BudgetTier(remaining, budget.AmountLimit),
			StartDate:    budget.StartDate,
			EndDate:      budget.EndDate,
		})
	}

	c.JSON(http.StatusOK, BudgetAdherenceResponse{Data: &data})
}
