package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebtCategoryName is the reserved category under which accepted and paid
// group debts materialize as expenses. It is created on demand.
const DebtCategoryName = "Group Debts"

// Category groups the expenses of a user.
type Category struct {
	DefaultModel
	Name        string `gorm:"uniqueIndex:category_user_name"`
	Description string
	UserID      uuid.UUID `gorm:"uniqueIndex:category_user_name"`
	User        User      `json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	return tx.First(&User{}, c.UserID).Error
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)

	return nil
}

// DebtCategory returns the user's reserved debt category, creating it if it
// does not exist yet.
func DebtCategory(db *gorm.DB, userID uuid.UUID) (Category, error) {
	var category Category

	err := db.Where(&Category{UserID: userID, Name: DebtCategoryName}).First(&category).Error
	if err == nil {
		return category, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Category{}, err
	}

	category = Category{
		UserID:      userID,
		Name:        DebtCategoryName,
		Description: "Expenses from settled group debts",
	}

	err = db.Create(&category).Error
	return category, err
}
