package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GroupExpense is an expense paid by one member on behalf of a group.
type GroupExpense struct {
	DefaultModel
	GroupID     uuid.UUID
	Group       Group `json:"-"`
	PayerID     uuid.UUID
	Payer       User `json:"-" gorm:"foreignKey:PayerID"`
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Description string
}

func (e *GroupExpense) BeforeSave(_ *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)
	return nil
}

// ExpenseSplit is one member's share of a group expense.
type ExpenseSplit struct {
	DefaultModel
	ExpenseID uuid.UUID
	Expense   GroupExpense `json:"-" gorm:"foreignKey:ExpenseID"`
	UserID    uuid.UUID
	User      User `json:"-"`
	Amount    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// SplitGroupExpense validates and persists a group expense together with its
// splits, the debts of all non-payer members, and their debt notifications.
// Everything happens in one transaction: if any check fails, nothing is
// written.
//
// The split amounts must sum to exactly the expense amount. Decimal
// arithmetic is exact, so no tolerance is applied. Every split user,
// including the payer if present, must be an active member of the group.
//
// The returned notifications have been persisted; the caller is responsible
// for pushing them to connected clients after the transaction committed.
func SplitGroupExpense(db *gorm.DB, expense GroupExpense, splits []ExpenseSplit) (GroupExpense, []ExpenseSplit, []Notification, error) {
	if !expense.Amount.IsPositive() {
		return GroupExpense{}, nil, nil, ErrAmountNotPositive
	}

	total := decimal.Zero
	for _, split := range splits {
		total = total.Add(split.Amount)
	}

	if !total.Equal(expense.Amount) {
		return GroupExpense{}, nil, nil, ErrSplitSumMismatch
	}

	var payer User
	var created []ExpenseSplit
	var notifications []Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payer, expense.PayerID).Error
		if err != nil {
			return err
		}

		err = tx.Create(&expense).Error
		if err != nil {
			return err
		}

		for _, split := range splits {
			_, err := ActiveMember(tx, expense.GroupID, split.UserID)
			if err != nil {
				if errors.Is(err, ErrNotGroupMember) {
					return ErrSplitUserNotMember
				}
				return err
			}

			split.ExpenseID = expense.ID
			err = tx.Create(&split).Error
			if err != nil {
				return err
			}
			created = append(created, split)

			if split.UserID == expense.PayerID {
				continue
			}

			message := fmt.Sprintf("You owe %s %s for '%s'.", payer.Username, split.Amount, expense.Description)

			debt := GroupDebt{
				GroupID:     expense.GroupID,
				DebtorID:    split.UserID,
				CreditorID:  expense.PayerID,
				Amount:      split.Amount,
				Description: message,
			}
			err = tx.Create(&debt).Error
			if err != nil {
				return err
			}

			notification := Notification{
				UserID:  split.UserID,
				Type:    NotificationGroupDebt,
				Message: message,
			}
			err = tx.Create(&notification).Error
			if err != nil {
				return err
			}
			notifications = append(notifications, notification)
		}

		return nil
	})
	if err != nil {
		return GroupExpense{}, nil, nil, err
	}

	return expense, created, notifications, nil
}
