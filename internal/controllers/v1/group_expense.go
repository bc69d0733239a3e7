package v1

import (
	"net/http"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitEditable is one member's share in a split request.
type SplitEditable struct {
	UserID uuid.UUID       `json:"userId" example:"91d5e3a4-c0ff-4b42-8e1a-bd1f5f4f60aa"`
	Amount decimal.Decimal `json:"amount" example:"20"`
}

// GroupExpenseEditable represents all user configurable parameters.
// The split amounts must sum to exactly the expense amount.
type GroupExpenseEditable struct {
	Amount      decimal.Decimal `json:"amount" example:"60"`
	Description string          `json:"description" example:"Groceries for the week"`
	Splits      []SplitEditable `json:"splits"`
}

type Split struct {
	UserID uuid.UUID       `json:"userId" example:"91d5e3a4-c0ff-4b42-8e1a-bd1f5f4f60aa"`
	Amount decimal.Decimal `json:"amount" example:"20"`
}

type GroupExpense struct {
	models.DefaultModel
	GroupID     uuid.UUID       `json:"groupId" example:"ab4e17fe-02c4-4a0c-a431-54ad80bc79ba"`
	PayerID     uuid.UUID       `json:"payerId" example:"91d5e3a4-c0ff-4b42-8e1a-bd1f5f4f60aa"`
	Amount      decimal.Decimal `json:"amount" example:"60"`
	Description string          `json:"description" example:"Groceries for the week"`
	Splits      []Split         `json:"splits"`
}

func newGroupExpense(model models.GroupExpense, splits []models.ExpenseSplit) GroupExpense {
	expense := GroupExpense{
		DefaultModel: model.DefaultModel,
		GroupID:      model.GroupID,
		PayerID:      model.PayerID,
		Amount:       model.Amount,
		Description:  model.Description,
		Splits:       make([]Split, 0, len(splits)),
	}

	for _, split := range splits {
		expense.Splits = append(expense.Splits, Split{
			UserID: split.UserID,
			Amount: split.Amount,
		})
	}

	return expense
}

type GroupExpenseListResponse struct {
	Data  []GroupExpense `json:"data"`
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type GroupExpenseResponse struct {
	Data  *GroupExpense `json:"data"`
	Error *string       `json:"error" example:"the split amounts do not sum to the expense amount"`
}

type Debt struct {
	models.DefaultModel
	GroupID     uuid.UUID         `json:"groupId" example:"ab4e17fe-02c4-4a0c-a431-54ad80bc79ba"`
	DebtorID    uuid.UUID         `json:"debtorId" example:"91d5e3a4-c0ff-4b42-8e1a-bd1f5f4f60aa"`
	CreditorID  uuid.UUID         `json:"creditorId" example:"41ab14e2-1e3f-4f29-bb18-02f12f21cf44"`
	Amount      decimal.Decimal   `json:"amount" example:"20"`
	AmountPaid  decimal.Decimal   `json:"amountPaid" example:"5"`
	Remaining   decimal.Decimal   `json:"remaining" example:"15"`
	Description string            `json:"description" example:"Groceries for the week"`
	Status      models.DebtStatus `json:"status" example:"partial"`
	DueDate     *time.Time        `json:"dueDate"`
}

func newDebt(model models.GroupDebt) Debt {
	return Debt{
		DefaultModel: model.DefaultModel,
		GroupID:      model.GroupID,
		DebtorID:     model.DebtorID,
		CreditorID:   model.CreditorID,
		Amount:       model.Amount,
		AmountPaid:   model.AmountPaid,
		Remaining:    model.Remaining(),
		Description:  model.Description,
		Status:       model.Status,
		DueDate:      model.DueDate,
	}
}

type DebtListResponse struct {
	Data  []Debt  `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type DebtResponse struct {
	Data  *Debt   `json:"data"`
	Error *string `json:"error" example:"the payment is larger than the remaining debt"`
}

// SplitExpense records an expense paid for the group and splits it between
// the listed members. Each non-payer split becomes a debt towards the payer,
// and the debtors are notified.
func (a *API) SplitExpense(c *gin.Context) {
	group, member, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupExpenseResponse{Error: &s})
		return
	}

	var editable GroupExpenseEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupExpenseResponse{Error: &s})
		return
	}

	if len(editable.Splits) == 0 {
		s := errSplitsMissing.Error()
		c.JSON(http.StatusBadRequest, GroupExpenseResponse{Error: &s})
		return
	}

	splits := make([]models.ExpenseSplit, 0, len(editable.Splits))
	for _, split := range editable.Splits {
		splits = append(splits, models.ExpenseSplit{
			UserID: split.UserID,
			Amount: split.Amount,
		})
	}

	expense, created, notifications, err := models.SplitGroupExpense(models.DB, models.GroupExpense{
		GroupID:     group.ID,
		PayerID:     member.UserID,
		Amount:      editable.Amount,
		Description: editable.Description,
	}, splits)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupExpenseResponse{Error: &s})
		return
	}

	for _, notification := range notifications {
		a.hub.Push(notification.UserID, notification.Message)
	}

	data := newGroupExpense(expense, created)
	c.JSON(http.StatusCreated, GroupExpenseResponse{Data: &data})
}

// GetGroupExpenses returns the shared expenses of the group, most recent
// first.
func (a *API) GetGroupExpenses(c *gin.Context) {
	group, _, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupExpenseListResponse{Error: &s})
		return
	}

	var expenses []models.GroupExpense
	err = models.DB.Where("group_id = ?", group.ID).Order("created_at DESC").Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GroupExpenseListResponse{Error: &s})
		return
	}

	data := make([]GroupExpense, 0, len(expenses))
	for _, expense := range expenses {
		var splits []models.ExpenseSplit
		err = models.DB.Where("expense_id = ?", expense.ID).Find(&splits).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GroupExpenseListResponse{Error: &s})
			return
		}

		data = append(data, newGroupExpense(expense, splits))
	}

	c.JSON(http.StatusOK, GroupExpenseListResponse{Data: data})
}

// ExpenseShare is the caller's share of a single group expense.
type ExpenseShare struct {
	Amount      decimal.Decimal `json:"amount" example:"20"`
	TotalAmount decimal.Decimal `json:"totalAmount" example:"60"`
	Description string          `json:"description" example:"Groceries for the week"`
}

type ExpenseShareResponse struct {
	Data  *ExpenseShare `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// GetExpenseShare returns what the authenticated user owes for a single
// group expense. Members without a split get a zero share.
func (a *API) GetExpenseShare(c *gin.Context) {
	group, member, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseShareResponse{Error: &s})
		return
	}

	expenseID, err := httputil.UUIDFromString(c.Param("expenseId"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseShareResponse{Error: &s})
		return
	}

	var expense models.GroupExpense
	err = models.DB.Where("id = ? AND group_id = ?", expenseID, group.ID).First(&expense).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseShareResponse{Error: &s})
		return
	}

	var splits []models.ExpenseSplit
	err = models.DB.Where("expense_id = ?", expense.ID).Find(&splits).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseShareResponse{Error: &s})
		return
	}

	share := decimal.Zero
	for _, split := range splits {
		if split.UserID == member.UserID {
			share = split.Amount
			break
		}
	}

	data := ExpenseShare{
		Amount:      share,
		TotalAmount: expense.Amount,
		Description: expense.Description,
	}
	c.JSON(http.StatusOK, ExpenseShareResponse{Data: &data})
}

// GetGroupDebts returns every debt in the group.
func (a *API) GetGroupDebts(c *gin.Context) {
	group, _, err := a.memberGroup(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtListResponse{Error: &s})
		return
	}

	var debts []models.GroupDebt
	err = models.DB.Where("group_id = ?", group.ID).Order("created_at DESC").Find(&debts).Error
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
