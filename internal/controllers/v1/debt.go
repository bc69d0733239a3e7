package v1

import (
	"net/http"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterDebtRoutes registers the routes for debts with
// the RouterGroup that is passed.
func (a *API) RegisterDebtRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGet)
		r.GET("", a.GetDebts)
	}

	// Debt with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGet)
		r.GET("/:id", a.GetDebt)
		r.OPTIONS("/:id/pay", httputil.OptionsPost)
		r.POST("/:id/pay", a.PayDebt)
		r.OPTIONS("/:id/dispute", httputil.OptionsPost)
		r.POST("/:id/dispute", a.DisputeDebt)
	}
}

// PaymentEditable describes a payment towards a debt. With Full set, the
// whole remaining amount is paid and Amount is ignored.
type PaymentEditable struct {
	Amount decimal.Decimal `json:"amount" example:"5"`
	Full   bool            `json:"full" example:"false"`
}

// DebtQueryFilter contains the fields the debt list can be filtered by.
type DebtQueryFilter struct {
	Role   string `form:"role" filterField:"false"`
	Status string `form:"status" filterField:"false"`
}

// GetDebts returns the debts the authenticated user owes. With
// ?role=creditor the debts owed to the user are returned instead.
func (a *API) GetDebts(c *gin.Context) {
	var filter DebtQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, DebtListResponse{Error: &s})
		return
	}

	query := models.DB.Order("created_at DESC")
	if filter.Role == "creditor" {
		query = query.Where("creditor_id = ?", userID(c))
	} else {
		query = query.Where("debtor_id = ?", userID(c))
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var debts []models.GroupDebt
	err = query.Find(&debts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtListResponse{Error: &s})
		return
	}

	data := make([]Debt, 0, len(debts))
	for _, debt := range debts {
		data = append(data, newDebt(debt))
	}

	c.JSON(http.StatusOK, DebtListResponse{Data: data})
}

// GetDebt returns a single debt. Only the debtor and the creditor can see
// it.
func (a *API) GetDebt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, DebtResponse{Error: &s})
		return
	}

	var debt models.GroupDebt
	err = models.DB.
		Where("id = ? AND (debtor_id = ? OR creditor_id = ?)", uri.ID.UUID, userID(c), userID(c)).
		First(&debt).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	data := newDebt(debt)
	c.JSON(http.StatusOK, DebtResponse{Data: &data})
}

// PayDebt records a payment towards the debt with the ID in the URL. The
// payment is mirrored as a personal expense of the debtor and the creditor
// is notified.
func (a *API) PayDebt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, DebtResponse{Error: &s})
		return
	}

	var editable PaymentEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	var debt models.GroupDebt
	err = models.DB.First(&debt, uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	var debtor models.User
	err = models.DB.First(&debtor, userID(c)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	notification, err := models.PayDebt(models.DB, &debt, debtor, editable.Amount, editable.Full)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	a.hub.Push(notification.UserID, notification.Message)

	// The payment counts against the debtor's budgets.
	a.checkBudgets(debtor.ID)

	data := newDebt(debt)
	c.JSON(http.StatusOK, DebtResponse{Data: &data})
}

// DisputeDebt marks the debt with the ID in the URL as disputed. Only the
// debtor can dispute, and settled debts can no longer be disputed.
func (a *API) DisputeDebt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, DebtResponse{Error: &s})
		return
	}

	var debt models.GroupDebt
	err = models.DB.First(&debt, uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	err = models.DisputeDebt(models.DB, &debt, userID(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtResponse{Error: &s})
		return
	}

	data := newDebt(debt)
	c.JSON(http.StatusOK, DebtResponse{Data: &data})
}
