package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetStatus is the lifecycle state of a budget. Budgets are created
// active and can only move to deactivated, never back.
type BudgetStatus string

const (
	BudgetStatusActive      BudgetStatus = "active"
	BudgetStatusDeactivated BudgetStatus = "deactivated"
)

// GeneralBudget is a spending limit over all expenses of a user within a
// date window.
type GeneralBudget struct {
	DefaultModel
	AmountLimit decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	StartDate   time.Time
	EndDate     time.Time
	UserID      uuid.UUID
	User        User         `json:"-"`
	Status      BudgetStatus `gorm:"default:active"`
}

func (b *GeneralBudget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	if b.Status == "" {
		b.Status = BudgetStatusActive
	}

	err := tx.First(&User{}, b.UserID).Error
	if err != nil {
		return err
	}

	return b.validate(tx)
}

func (b *GeneralBudget) BeforeUpdate(tx *gorm.DB) error {
	if b.Status == BudgetStatusDeactivated {
		return ErrBudgetNotActive
	}

	// The prospective state is the current record with all changed
	// fields applied.
	prospective := *b
	if toSave, ok := tx.Statement.Dest.(GeneralBudget); ok {
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
	}

	return prospective.validate(tx)
}

// BeforeSave sets the timezone for the dates to UTC.
func (b *GeneralBudget) BeforeSave(_ *gorm.DB) error {
	b.StartDate = b.StartDate.In(time.UTC)
	b.EndDate = b.EndDate.In(time.UTC)

	return nil
}

func (b *GeneralBudget) AfterFind(_ *gorm.DB) error {
	b.StartDate = b.StartDate.In(time.UTC)
	b.EndDate = b.EndDate.In(time.UTC)

	return nil
}

// validate enforces the invariants for active general budgets: a positive
// limit, a valid window, no overlap with other active general budgets of the
// user, and a limit that covers all active category budgets.
//
// Deactivated budgets are unconstrained, they no longer govern anything.
func (b GeneralBudget) validate(tx *gorm.DB) error {
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
	err := tx.Model(&GeneralBudget{}).
		Where("user_id = ? AND status = ? AND id != ?", b.UserID, BudgetStatusActive, b.ID).
		Where("start_date <= ? AND end_date >= ?", b.EndDate, b.StartDate).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrBudgetWindowOverlap
	}

	sum, err := activeCategoryBudgetSum(tx, b.UserID, uuid.Nil)
	if err != nil {
		return err
	}

	if sum.GreaterThan(b.AmountLimit) {
		return ErrLimitBelowCategoryBudgets
	}

	return nil
}

// ActiveGeneralBudget returns the user's active general budget. The second
// return value reports whether one exists; budgets are optional, a missing
// one is not an error.
func ActiveGeneralBudget(db *gorm.DB, userID uuid.UUID) (GeneralBudget, bool, error) {
	var budget GeneralBudget

	err := db.Where(&GeneralBudget{UserID: userID, Status: BudgetStatusActive}).First(&budget).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return GeneralBudget{}, false, nil
		}
		return GeneralBudget{}, false, err
	}

	return budget, true, nil
}

// activeCategoryBudgetSum returns the sum of the limits of all active
// category budgets of the user, excluding the budget with the given ID.
func activeCategoryBudgetSum(tx *gorm.DB, userID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := tx.Model(&CategoryBudget{}).
		Where("user_id = ? AND status = ? AND id != ?", userID, BudgetStatusActive, exclude).
		Select("SUM(amount_limit)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
