package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtStatus is the settlement state of a group debt.
type DebtStatus string

const (
	DebtStatusActive   DebtStatus = "active"
	DebtStatusPartial  DebtStatus = "partial"
	DebtStatusPaid     DebtStatus = "paid"
	DebtStatusDisputed DebtStatus = "disputed"
)

// GroupDebt is a pending or settled obligation between two members of a
// group, created when a group expense is split.
type GroupDebt struct {
	DefaultModel
	GroupID     uuid.UUID
	Group       Group `json:"-"`
	DebtorID    uuid.UUID
	Debtor      User `json:"-" gorm:"foreignKey:DebtorID"`
	CreditorID  uuid.UUID
	Creditor    User `json:"-" gorm:"foreignKey:CreditorID"`
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AmountPaid  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Description string
	Status      DebtStatus `gorm:"default:active"`
	DueDate     *time.Time
}

func (d *GroupDebt) BeforeSave(_ *gorm.DB) error {
	d.Description = strings.TrimSpace(d.Description)
	return nil
}

// Remaining returns the unpaid part of the debt.
func (d GroupDebt) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.AmountPaid)
}

// PayDebt settles a debt partially or fully. Full payments ignore amount and
// pay off the open remainder. The payment materializes as an expense of the
// debtor under the reserved debt category and notifies the creditor.
//
// Runs in one transaction; the returned notification has been persisted and
// the caller pushes it after commit.
func PayDebt(db *gorm.DB, debt *GroupDebt, debtor User, amount decimal.Decimal, full bool) (Notification, error) {
	if debt.DebtorID != debtor.ID {
		return Notification{}, ErrNotYourDebt
	}

	if debt.Status == DebtStatusPaid {
		return Notification{}, ErrDebtAlreadySettled
	}

	if full {
		amount = debt.Remaining()
	}

	if !amount.IsPositive() {
		return Notification{}, ErrAmountNotPositive
	}

	if amount.GreaterThan(debt.Remaining()) {
		return Notification{}, ErrDebtPaymentTooLarge
	}

	var notification Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		debt.AmountPaid = debt.AmountPaid.Add(amount)
		if debt.AmountPaid.GreaterThanOrEqual(debt.Amount) {
			debt.Status = DebtStatusPaid
		} else {
			debt.Status = DebtStatusPartial
		}

		err := tx.Save(debt).Error
		if err != nil {
			return err
		}

		category, err := DebtCategory(tx, debtor.ID)
		if err != nil {
			return err
		}

		expense := Expense{
			Amount:      amount,
			Description: fmt.Sprintf("Payment towards '%s'", debt.Description),
			Date:        time.Now().In(time.UTC),
			UserID:      debtor.ID,
			CategoryID:  category.ID,
		}
		err = tx.Create(&expense).Error
		if err != nil {
			return err
		}

		notification = Notification{
			UserID:  debt.CreditorID,
			Type:    NotificationGroupDebt,
			Message: fmt.Sprintf("%s has paid %s towards the debt '%s'.", debtor.Username, amount, debt.Description),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return Notification{}, err
	}

	return notification, nil
}

// DisputeDebt marks a debt as disputed. Only the debtor can dispute, and
// settled debts can no longer be disputed.
func DisputeDebt(db *gorm.DB, debt *GroupDebt, debtorID uuid.UUID) error {
	if debt.DebtorID != debtorID {
		return ErrNotYourDebt
	}

	if debt.Status == DebtStatusPaid {
		return ErrDebtAlreadySettled
	}

	debt.Status = DebtStatusDisputed
	return db.Save(debt).Error
}
