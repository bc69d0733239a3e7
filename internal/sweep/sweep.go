// Package sweep runs the periodic maintenance jobs: deactivating expired
// budgets, re-checking thresholds for every user, and pruning old
// notifications.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/Incognitol07/expense-tracker-api/internal/models"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	// ExpiryInterval is how often expired budgets are swept.
	ExpiryInterval = 5 * time.Minute

	// ThresholdInterval is how often every user's budgets are re-checked.
	ThresholdInterval = 5 * time.Minute

	// RetentionInterval is how often old notifications are pruned.
	RetentionInterval = 24 * time.Hour

	// checkConcurrency bounds the parallel per-user checks of the
	// threshold sweep.
	checkConcurrency = 4
)

// Service owns the periodic jobs. Each job is also callable directly, which
// is how the tests drive them.
type Service struct {
	db         *gorm.DB
	reconciler *reconcile.Service
}

func NewService(db *gorm.DB, reconciler *reconcile.Service) *Service {
	return &Service{db: db, reconciler: reconciler}
}

// Start runs the sweep loops until ctx is canceled. Job errors are logged,
// never fatal: a failed run is retried on the next tick.
func (s *Service) Start(ctx context.Context) {
	expiry := time.NewTicker(ExpiryInterval)
	thresholds := time.NewTicker(ThresholdInterval)
	retention := time.NewTicker(RetentionInterval)
	defer expiry.Stop()
	defer thresholds.Stop()
	defer retention.Stop()

	log.Info().Msg("sweep loops started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweep loops stopped")
			return

		case <-expiry.C:
			err := s.DeactivateExpiredBudgets()
			if err != nil {
				log.Error().Err(err).Msg("budget expiry sweep failed")
			}

		case <-thresholds.C:
			err := s.CheckAllUsers(ctx)
			if err != nil {
				log.Error().Err(err).Msg("threshold sweep failed")
			}

		case <-retention.C:
			err := s.CleanupNotifications()
			if err != nil {
				log.Error().Err(err).Msg("notification cleanup failed")
			}
		}
	}
}

// DeactivateExpiredBudgets deactivates every active budget whose end date
// has passed and notifies its owner. Budgets ending today stay active until
// the day is over.
func (s *Service) DeactivateExpiredBudgets() error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var general []models.GeneralBudget
	err := s.db.Where("status = ? AND end_date < ?", models.BudgetStatusActive, today).Find(&general).Error
	if err != nil {
		return err
	}

	for _, budget := range general {
		err = s.expire(&budget, budget.UserID, budget.AmountLimit, budget.StartDate, budget.EndDate)
		if err != nil {
			return err
		}
	}

	var category []models.CategoryBudget
	err = s.db.Where("status = ? AND end_date < ?", models.BudgetStatusActive, today).Find(&category).Error
	if err != nil {
		return err
	}

	for _, budget := range category {
		err = s.expire(&budget, budget.UserID, budget.AmountLimit, budget.StartDate, budget.EndDate)
		if err != nil {
			return err
		}
	}

	if len(general)+len(category) > 0 {
		log.Info().Int("general", len(general)).Int("category", len(category)).Msg("deactivated expired budgets")
	}

	return nil
}

func (s *Service) expire(budget any, userID uuid.UUID, limit decimal.Decimal, start, end time.Time) error {
	// UpdateColumn skips the model hooks: expiry must go through even
	// though updates to deactivated budgets are otherwise rejected.
	err := s.db.Model(budget).UpdateColumn("status", models.BudgetStatusDeactivated).Error
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"Your budget of %s for %s to %s has been deactivated because its end date has passed.",
		limit, start.Format("2006-01-02"), end.Format("2006-01-02"),
	)

	return s.reconciler.Dispatch(userID, models.NotificationSystem, message)
}

// CheckAllUsers re-runs the general and category budget checks for every
// user. Per-user failures are logged and skipped so that one broken account
// does not stall the sweep.
func (s *Service) CheckAllUsers(ctx context.Context) error {
	var users []models.User
	err := s.db.Find(&users).Error
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	for _, user := range users {
		user := user
		g.Go(func() error {
			err := s.reconciler.CheckBudget(user.ID)
			if err != nil {
				log.Error().Err(err).Str("user", user.ID.String()).Msg("budget check failed")
			}

			err = s.reconciler.CheckCategoryBudgets(user.ID)
			if err != nil {
				log.Error().Err(err).Str("user", user.ID.String()).Msg("category budget check failed")
			}

			return nil
		})
	}

	return g.Wait()
}

// CleanupNotifications permanently deletes notifications older than the
// retention period, read or not.
func (s *Service) CleanupNotifications() error {
	cutoff := time.Now().UTC().Add(-models.NotificationRetention)

	result := s.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Info().Int64("count", result.RowsAffected).Msg("pruned old notifications")
	}

	return nil
}
