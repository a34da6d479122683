// Package report implements the sales reporting queries.
package report

import (
	"context"
	"time"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/database"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
)

const dateLayout = "2006-01-02"

// Service implements read-only sales reports.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new report service.
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log,
	}
}

// Daily returns the full report for one calendar day, today when date is
// empty.
func (s *Service) Daily(ctx context.Context, date string) (*models.DailyReport, error) {
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if err := validDate(date); err != nil {
		return nil, err
	}
	return s.db.DailyReport(ctx, date)
}

// Sales returns completed sales between two dates bucketed by period
// (daily, weekly or monthly).
func (s *Service) Sales(ctx context.Context, from, to, period string) (*models.SalesReport, error) {
	if from == "" || to == "" {
		return nil, apperrors.Validation("date_range", "from and to dates are required")
	}
	if err := validDate(from); err != nil {
		return nil, err
	}
	if err := validDate(to); err != nil {
		return nil, err
	}
	return s.db.SalesReport(ctx, from, to, period)
}

// MenuPerformance returns per-item sales over a date range, last 30 days by
// default.
func (s *Service) MenuPerformance(ctx context.Context, from, to string) ([]models.MenuPerformance, error) {
	now := time.Now().UTC()
	if to == "" {
		to = now.Format(dateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(dateLayout)
	}
	if err := validDate(from); err != nil {
		return nil, err
	}
	if err := validDate(to); err != nil {
		return nil, err
	}
	return s.db.MenuPerformanceReport(ctx, from, to)
}

func validDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperrors.Validation("date", "date must be in YYYY-MM-DD format")
	}
	return nil
}
