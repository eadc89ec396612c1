// Package progress derives display-only repayment progress for persisted
// installment plans from their recorded payments.
package progress

import (
	"context"
	"fmt"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/pkg/mathutil"
	"go.uber.org/zap"
)

// Progress summarizes how far along a plan's repayment is.
type Progress struct {
	PaidCount       int     `json:"paidCount"`
	RemainingCount  int     `json:"remainingCount"`
	PercentComplete float64 `json:"percentComplete"`
}

// PaymentLister is the backend collaborator exposing a plan's recorded
// payments.
type PaymentLister interface {
	ListPayments(ctx context.Context, planID string) ([]plan.InstallmentPayment, error)
}

// Compute derives paid/remaining counts and a completion percentage from a
// plan and its payments. A payment counts as paid when it carries a paid
// date. Pure; neither the plan nor the payments are mutated.
func Compute(p *plan.InstallmentPlan, payments []plan.InstallmentPayment) Progress {
	paid := 0
	for _, payment := range payments {
		if payment.PaidDate != nil {
			paid++
		}
	}

	periods := p.Parameters.PeriodCount
	if periods <= 0 {
		return Progress{PaidCount: paid}
	}

	remaining := periods - paid
	if remaining < 0 {
		remaining = 0
	}

	percent := mathutil.CalculatePercentage(float64(paid), float64(periods))
	percent = mathutil.Clamp(percent, 0, 100)

	return Progress{
		PaidCount:       paid,
		RemainingCount:  remaining,
		PercentComplete: percent,
	}
}

// Tracker fetches a plan's payments from the backend and computes its
// progress, for list views over persisted plans.
type Tracker struct {
	payments PaymentLister
	logger   *zap.Logger
}

// NewTracker creates a tracker backed by the given payment lister.
func NewTracker(payments PaymentLister, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{payments: payments, logger: logger}
}

// ForPlan lists the plan's payments and computes its progress.
func (t *Tracker) ForPlan(ctx context.Context, p *plan.InstallmentPlan) (Progress, error) {
	payments, err := t.payments.ListPayments(ctx, p.ID)
	if err != nil {
		return Progress{}, fmt.Errorf("listing payments for plan %s: %w", p.ID, err)
	}
	return Compute(p, payments), nil
}
