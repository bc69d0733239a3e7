package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns expenses, budgets, and notifications.
// Admin accounts additionally have access to the administrative API.
type User struct {
	DefaultModel
	Username string `gorm:"uniqueIndex"`
	Email    string `gorm:"uniqueIndex"`
	Admin    bool   `json:"-"`
	// Password is the bcrypt hash of the user's password. It is never
	// serialized into API responses.
	Password string `json:"-"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// PurgeUser deletes a user together with everything they own: expenses,
// budgets, categories, notifications, group memberships and the debts they
// are part of. Group expenses they paid stay, the group's history must
// remain consistent for the other members.
func PurgeUser(db *gorm.DB, userID uuid.UUID) error {
	var user User
	err := db.First(&user, userID).Error
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{
			&Expense{},
			&CategoryBudget{},
			&GeneralBudget{},
			&Category{},
			&Notification{},
			&GroupMember{},
			&ExpenseSplit{},
		} {
			err := tx.Where("user_id = ?", userID).Delete(owned).Error
			if err != nil {
				return err
			}
		}

		err := tx.Where("debtor_id = ? OR creditor_id = ?", userID, userID).Delete(&GroupDebt{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
