// Package reconcile implements the budget reconciliation engine: it computes
// remaining budget amounts from the expenses inside a budget's date window
// and emits deduplicated threshold-exceeded notifications.
package reconcile

import (
	"fmt"

	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pusher delivers a message to a connected client. Delivery is best-effort:
// if the user has no active connection, the message is dropped.
type Pusher interface {
	Push(userID uuid.UUID, message string)
}

// Service checks budgets against expenses and dispatches notifications.
// It is constructed explicitly and injected into the HTTP handlers and the
// sweep job runner.
type Service struct {
	db   *gorm.DB
	push Pusher
}

func NewService(db *gorm.DB, push Pusher) *Service {
	return &Service{db: db, push: push}
}

// Tier labels for BudgetTier.
const (
	TierWithinLimits     = "within limits"
	TierNearingThreshold = "nearing threshold"
	TierExceeded         = "exceeded"
)

// Remaining computes the remaining amount of a budget limit given the
// expenses that match its window. The result is the true signed value: a
// negative remaining means the budget is exceeded. Clamping, if any, is left
// to the presentation layer.
func Remaining(limit decimal.Decimal, expenses []models.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, expense := range expenses {
		sum = sum.Add(expense.Amount)
	}

	return limit.Sub(sum)
}

// BudgetTier classifies a remaining amount into one of three tiers:
// "within limits" when at least 20% of the limit is left, "nearing
// threshold" below that, and "exceeded" once nothing is left.
func BudgetTier(remaining, limit decimal.Decimal) string {
	if !remaining.IsPositive() {
		return TierExceeded
	}

	if remaining.GreaterThanOrEqual(limit.Mul(decimal.NewFromFloat(0.2))) {
		return TierWithinLimits
	}

	return TierNearingThreshold
}

// GeneralRemaining computes the signed remaining amount for a general
// budget from an explicit expense query over the budget window.
func (s *Service) GeneralRemaining(budget models.GeneralBudget) (decimal.Decimal, error) {
	expenses, err := models.ExpensesInWindow(s.db, budget.UserID, budget.StartDate, budget.EndDate, nil)
	if err != nil {
		return decimal.Zero, err
	}

	return Remaining(budget.AmountLimit, expenses), nil
}

// CategoryRemaining computes the signed remaining amount for a category
// budget. Only expenses of the budget's category inside its window count.
func (s *Service) CategoryRemaining(budget models.CategoryBudget) (decimal.Decimal, error) {
	expenses, err := models.ExpensesInWindow(s.db, budget.UserID, budget.StartDate, budget.EndDate, &budget.CategoryID)
	if err != nil {
		return decimal.Zero, err
	}

	return Remaining(budget.AmountLimit, expenses), nil
}

// CheckBudget recomputes the remaining amount of the user's active general
// budget and dispatches a threshold notification when it is exceeded.
//
// A user without an active budget is not an error; the check exits silently.
// At most one unread notification with the resulting message text exists per
// user at any time.
func (s *Service) CheckBudget(userID uuid.UUID) error {
	budget, ok, err := models.ActiveGeneralBudget(s.db, userID)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug().Str("user", userID.String()).Msg("no active budget, skipping check")
		return nil
	}

	remaining, err := s.GeneralRemaining(budget)
	if err != nil {
		return err
	}

	if remaining.Sign() >= 0 {
		return nil
	}

	message := generalExceededMessage(budget.AmountLimit, remaining.Neg())
	return s.dispatch(userID, models.NotificationAlert, message)
}

// CheckCategoryBudgets recomputes the remaining amount of every active
// category budget of the user and dispatches a threshold notification for
// each exceeded one.
func (s *Service) CheckCategoryBudgets(userID uuid.UUID) error {
	budgets, err := models.ActiveCategoryBudgets(s.db, userID)
	if err != nil {
		return err
	}

	for _, budget := range budgets {
		remaining, err := s.CategoryRemaining(budget)
		if err != nil {
			return err
		}

		if remaining.Sign() >= 0 {
			continue
		}

		var category models.Category
		err = s.db.First(&category, budget.CategoryID).Error
		if err != nil {
			return err
		}

		message := categoryExceededMessage(category.Name, budget.AmountLimit, remaining.Neg())
		err = s.dispatch(userID, models.NotificationAlert, message)
		if err != nil {
			return err
		}
	}

	return nil
}

// Dispatch persists a notification unless an identical one is still unread,
// and pushes it to connected clients. It is used by the sweeps for their
// SYSTEM notifications so that they share the dedup rule of the threshold
// checks.
func (s *Service) Dispatch(userID uuid.UUID, kind models.NotificationType, message string) error {
	return s.dispatch(userID, kind, message)
}

func (s *Service) dispatch(userID uuid.UUID, kind models.NotificationType, message string) error {
	notification := models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}

	created, err := models.CreateUnlessUnread(s.db, &notification)
	if err != nil {
		return err
	}

	if !created {
		log.Debug().Str("user", userID.String()).Str("message", message).Msg("unread duplicate, notification suppressed")
		return nil
	}

	s.push.Push(userID, message)
	return nil
}

func generalExceededMessage(limit, excess decimal.Decimal) string {
	return fmt.Sprintf("You've exceeded your budget of %s by %s.", limit, excess)
}

func categoryExceededMessage(category string, limit, excess decimal.Decimal) string {
	return fmt.Sprintf("You've exceeded your budget for category '%s' by %s. Your limit was %s.", category, excess, limit)
}
