package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Errors for user accounts.
var (
	ErrUsernameTaken = errors.New("this username is already taken")
	ErrEmailTaken    = errors.New("an account with this email address already exists")
)

// Errors enforced by the budget guards.
var (
	ErrAmountNotPositive          = errors.New("amounts must be larger than zero")
	ErrBudgetWindowInvalid        = errors.New("the budget end date must not be before its start date")
	ErrBudgetWindowOverlap        = errors.New("an active budget already exists in the given date range")
	ErrBudgetNotActive            = errors.New("only active budgets can be updated")
	ErrCategoryBudgetsExceedLimit = errors.New("the limits of all active category budgets must not exceed the limit of the active general budget")
	ErrLimitBelowCategoryBudgets  = errors.New("the general budget limit must not be below the sum of all active category budget limits")
	ErrCategoryNameNotUnique      = errors.New("the category name is already in use for this user")
	ErrGroupNameNotUnique         = errors.New("this group name is already in use")
)

// Errors for group expenses and debts.
var (
	ErrNotGroupMember      = errors.New("you must be an active member of the group")
	ErrSplitUserNotMember  = errors.New("all users in the split must be active members of the group")
	ErrSplitSumMismatch    = errors.New("the total split amount must equal the expense amount")
	ErrNotYourDebt         = errors.New("you can only settle your own debts")
	ErrDebtPaymentTooLarge = errors.New("the amount paid exceeds the remaining debt")
	ErrDebtAlreadySettled  = errors.New("this debt is already settled")
)
