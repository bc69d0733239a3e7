package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single expense of a user, always assigned to one category.
type Expense struct {
	DefaultModel
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Description string
	Date        time.Time
	UserID      uuid.UUID
	User        User `json:"-"`
	CategoryID  uuid.UUID
	Category    Category `json:"-"`
}

// BeforeCreate checks that the category exists and belongs to the same user.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	return tx.Where("id = ? AND user_id = ?", e.CategoryID, e.UserID).First(&Category{}).Error
}

func (e *Expense) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("CategoryID") {
		toSave := tx.Statement.Dest.(Expense)
		return tx.Where("id = ? AND user_id = ?", toSave.CategoryID, toSave.UserID).First(&Category{}).Error
	}

	return nil
}

// BeforeSave sets the timezone for the Date to UTC.
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

func (e *Expense) AfterFind(_ *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return nil
}

func (e *Expense) AfterSave(_ *gorm.DB) error {
	if !e.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}

// ExpensesInWindow returns all expenses of a user whose date falls into the
// inclusive [start, end] window. If categoryID is non-nil, only expenses of
// that category are returned.
func ExpensesInWindow(db *gorm.DB, userID uuid.UUID, start, end time.Time, categoryID *uuid.UUID) ([]Expense, error) {
	var expenses []Expense

	q := db.
		Where(&Expense{UserID: userID}).
		Where("date >= ?", start).
		Where("date <= ?", end)

	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	err := q.Find(&expenses).Error
	return expenses, err
}
