package payment

import "warung-pos/internal/models"

// settlementOutcome is the pure result of applying a payment batch against
// an order total.
type settlementOutcome struct {
	status    models.PaymentStatus
	totalPaid int64
	change    int64
}

// computeSettlement folds a payment batch onto the amount already recorded.
// The order is paid once cumulative payments cover the total; any surplus is
// returned as change. Hutang amounts count toward the total like real money,
// the open obligation is tracked separately in the debt ledger.
func computeSettlement(totalAmount, alreadyPaid int64, batch []models.PaymentInput) settlementOutcome {
	totalPaid := alreadyPaid
	for _, p := range batch {
		totalPaid += p.Amount
	}

	out := settlementOutcome{status: models.PaymentPartial, totalPaid: totalPaid}
	if totalPaid >= totalAmount {
		out.status = models.PaymentPaid
		out.change = totalPaid - totalAmount
	}
	return out
}
