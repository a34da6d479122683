// Package payment implements order settlement and the debt ledger.
package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/storage"
)

// Service implements settlement and debt collection.
type Service struct {
	store  storage.Store
	logger *logger.Logger
}

// NewService creates a new payment service.
func NewService(store storage.Store, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log,
	}
}

// Settle applies a payment batch to an order. Cumulative payments decide
// partial versus paid; reaching paid promotes an open order to completed.
// Each hutang entry opens a debt. A cancelled order is never resurrected.
func (s *Service) Settle(ctx context.Context, req *models.SettleRequest, userID *string, requestID string) (*models.SettlementResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var result *models.SettlementResult

	err := s.store.Atomic(ctx, func(tx storage.Store) error {
		order, err := tx.GetOrderForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == models.PaymentPaid {
			return apperrors.ErrAlreadyPaid
		}

		alreadyPaid, err := tx.SumPayments(ctx, req.OrderID)
		if err != nil {
			return err
		}
		outcome := computeSettlement(order.TotalAmount, alreadyPaid, req.Payments)

		payments := make([]models.Payment, 0, len(req.Payments))
		methods := make([]models.PaymentMethod, 0, len(req.Payments))
		for _, in := range req.Payments {
			p := models.Payment{
				ID:          uuid.NewString(),
				OrderID:     req.OrderID,
				Amount:      in.Amount,
				Method:      models.PaymentMethod(in.Method),
				ProofURL:    in.ProofURL,
				PaymentTime: now,
				Notes:       in.Notes,
			}
			if err := tx.InsertPayment(ctx, &p); err != nil {
				return err
			}
			payments = append(payments, p)
			methods = append(methods, p.Method)

			if p.Method == models.MethodHutang {
				customer := "Unknown"
				if order.CustomerName != nil && *order.CustomerName != "" {
					customer = *order.CustomerName
				}
				debt := models.Debt{
					ID:           uuid.NewString(),
					OrderID:      req.OrderID,
					CustomerName: customer,
					Amount:       p.Amount,
					Status:       models.DebtUnpaid,
					DebtDate:     now,
					Notes:        in.Notes,
				}
				if err := tx.InsertDebt(ctx, &debt); err != nil {
					return err
				}
			}
		}

		promote := outcome.status == models.PaymentPaid
		if err := tx.SetPaymentStatus(ctx, req.OrderID, outcome.status, now, promote); err != nil {
			return err
		}

		logValue, _ := json.Marshal(map[string]interface{}{
			"total_paid": outcome.totalPaid,
			"method":     methods,
		})
		logStr := string(logValue)
		if err := tx.AppendOrderLog(ctx, &models.OrderLog{
			ID:       uuid.NewString(),
			OrderID:  req.OrderID,
			Action:   models.ActionPaid,
			NewValue: &logStr,
			LoggedAt: now,
			UserID:   userID,
		}); err != nil {
			return err
		}

		message := "Pembayaran partial berhasil"
		if outcome.status == models.PaymentPaid {
			message = "Pembayaran berhasil"
		}
		result = &models.SettlementResult{
			Message:       message,
			PaymentStatus: outcome.status,
			TotalAmount:   order.TotalAmount,
			TotalPaid:     outcome.totalPaid,
			Change:        outcome.change,
			Payments:      payments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment_recorded", "Payment batch applied", requestID, map[string]interface{}{
		"order_id":       req.OrderID,
		"payment_status": result.PaymentStatus,
		"total_paid":     result.TotalPaid,
		"change":         result.Change,
	})

	return result, nil
}

// PayOff marks a debt as collected. When the last unpaid debt of an order
// is cleared, the order's payment status is promoted to paid without
// touching its kitchen status.
func (s *Service) PayOff(ctx context.Context, debtID string, requestID string) error {
	now := time.Now().UTC()

	err := s.store.Atomic(ctx, func(tx storage.Store) error {
		debt, err := tx.GetDebt(ctx, debtID)
		if err != nil {
			return err
		}
		if debt.Status == models.DebtPaid {
			return apperrors.ErrAlreadyPaid
		}

		if err := tx.MarkDebtPaid(ctx, debtID, now); err != nil {
			return err
		}

		remaining, err := tx.CountUnpaidDebts(ctx, debt.OrderID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return tx.SetPaymentStatus(ctx, debt.OrderID, models.PaymentPaid, now, false)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("debt_paid", "Debt collected", requestID, map[string]interface{}{
		"debt_id": debtID,
	})
	return nil
}

// ListDebts returns debts with their order display fields, optionally
// filtered by status, newest first.
func (s *Service) ListDebts(ctx context.Context, status string) ([]models.DebtWithOrder, error) {
	if status != "" && status != string(models.DebtUnpaid) && status != string(models.DebtPaid) {
		return nil, apperrors.Validation("status", "status must be unpaid or paid")
	}
	return s.store.ListDebts(ctx, models.DebtStatus(status))
}
