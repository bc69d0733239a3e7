package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryBudget is a spending limit for a single category of a user within
// a date window.
type CategoryBudget struct {
	DefaultModel
	CategoryID  uuid.UUID
	Category    Category        `json:"-"`
	AmountLimit decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	StartDate   time.Time
	EndDate     time.Time
	UserID      uuid.UUID
	User        User         `json:"-"`
	Status      BudgetStatus `gorm:"default:active"`
}

func (b *CategoryBudget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	if b.Status == "" {
		b.Status = BudgetStatusActive
	}

	err := tx.First(&Category{}, b.CategoryID).Error
	if err != nil {
		return err
	}

	return b.validate(tx)
}

func (b *CategoryBudget) BeforeUpdate(tx *gorm.DB) error {
	if b.Status == BudgetStatusDeactivated {
		return ErrBudgetNotActive
	}

	prospective := *b
	if toSave, ok := tx.Statement.Dest.(CategoryBudget); ok {
		if tx.Statement.Changed("AmountLimit") {
			prospective.AmountLimit = toSave.AmountLimit
		}
		if tx.Statement.Changed("StartDate") {
			prospective.StartDate = toSave.StartDate
		}
		if tx.Statement.Changed("EndDate") {
			prospective.EndDate = toSave.EndDate
		}
		if tx.Statement.Changed("Status") {
			prospective.Status = toSave.Status
		}
		if tx.Statement.Changed("CategoryID") {
			prospective.CategoryID = toSave.CategoryID

			err := tx.First(&Category{}, prospective.CategoryID).Error
			if err != nil {
				return err
			}
		}
	}

	return prospective.validate(tx)
}

// BeforeSave sets the timezone for the dates to UTC.
func (b *CategoryBudget) BeforeSave(_ *gorm.DB) error {
	b.StartDate = b.StartDate.In(time.UTC)
	b.EndDate = b.EndDate.In(time.UTC)

	return nil
}

func (b *CategoryBudget) AfterFind(_ *gorm.DB) error {
	b.StartDate = b.StartDate.In(time.UTC)
	b.EndDate = b.EndDate.In(time.UTC)

	return nil
}

// validate enforces the invariants for active category budgets: a positive
// limit, a valid window, no overlap with other active budgets for the same
// category, and the cross-entity constraint that all active category budget
// limits together stay within the active general budget limit.
//
// The cross-entity check is skipped when the user has no active general
// budget; category budgets may then exist unconstrained.
func (b CategoryBudget) validate(tx *gorm.DB) error {
	if !b.AmountLimit.IsPositive() {
		return ErrAmountNotPositive
	}

	if b.EndDate.Before(b.StartDate) {
		return ErrBudgetWindowInvalid
	}

	if b.Status != BudgetStatusActive {
		return nil
	}

	var count int64
	err := tx.Model(&CategoryBudget{}).
		Where("user_id = ? AND category_id = ? AND status = ? AND id != ?", b.UserID, b.CategoryID, BudgetStatusActive, b.ID).
		Where("start_date <= ? AND end_date >= ?", b.EndDate, b.StartDate).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrBudgetWindowOverlap
	}

	general, ok, err := ActiveGeneralBudget(tx, b.UserID)
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	sum, err := activeCategoryBudgetSum(tx, b.UserID, b.ID)
	if err != nil {
		return err
	}

	if sum.Add(b.AmountLimit).GreaterThan(general.AmountLimit) {
		return ErrCategoryBudgetsExceedLimit
	}

	return nil
}

// ActiveCategoryBudgets returns all active category budgets of a user.
func ActiveCategoryBudgets(db *gorm.DB, userID uuid.UUID) ([]CategoryBudget, error) {
	var budgets []CategoryBudget

	err := db.Where(&CategoryBudget{UserID: userID, Status: BudgetStatusActive}).Find(&budgets).Error
	return budgets, err
}
