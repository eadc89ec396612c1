package engine

import (
	"fmt"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/pkg/mathutil"
	"go.uber.org/zap"
)

// ScheduleGenerator produces the ordered list of payment line items for a
// financed plan: an optional down payment entry followed by one entry per
// installment period with its principal/interest split and running balance.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate builds the full amortization schedule. The running balance is
// carried unrounded between periods; each emitted entry is rounded to the
// minor currency unit. Any residual left by the fixed installment amount is
// absorbed into the final period's principal portion so the last entry's
// remaining balance is exactly zero.
func (g *ScheduleGenerator) Generate(totalAmount, downPayment, periodicRate, installmentAmount float64, periodCount int, frequency plan.Frequency, startDate time.Time) ([]plan.ScheduleEntry, error) {
	if totalAmount < 0 || downPayment < 0 {
		return nil, fmt.Errorf("%w: totalAmount=%.2f downPayment=%.2f", ErrInvalidAmount, totalAmount, downPayment)
	}

	balance := totalAmount - downPayment

	var entries []plan.ScheduleEntry
	if downPayment > 0 {
		entries = append(entries, plan.ScheduleEntry{
			SequenceNumber:   0,
			DueDate:          startDate,
			PaymentAmount:    mathutil.Round(downPayment),
			PrincipalPortion: mathutil.Round(downPayment),
			InterestPortion:  0,
			RemainingBalance: mathutil.Round(mathutil.Max(balance, 0)),
			Kind:             plan.EntryDownPayment,
		})
	}

	if balance <= 0 {
		// Nothing financed; the down payment entry is the whole schedule.
		return entries, nil
	}
	if periodCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeriodCount, periodCount)
	}

	for i := 1; i <= periodCount; i++ {
		interest := balance * periodicRate
		principal := installmentAmount - interest

		if i == periodCount {
			// Reconciliation: the fixed installment leaves a sub-cent
			// residual after the last period. Fold it into the final
			// principal portion so the balance closes at exactly zero.
			principal = balance
		}
		balance -= principal

		entries = append(entries, plan.ScheduleEntry{
			SequenceNumber:   i,
			DueDate:          frequency.Advance(startDate, i),
			PaymentAmount:    mathutil.Round(principal + interest),
			PrincipalPortion: mathutil.Round(principal),
			InterestPortion:  mathutil.Round(interest),
			RemainingBalance: mathutil.Round(mathutil.Max(balance, 0)),
			Kind:             plan.EntryInstallment,
		})
	}

	g.logger.Debug("generated schedule",
		zap.String("op", "engine.Generate"),
		zap.Int("entries", len(entries)),
		zap.Float64("closingBalance", balance),
	)

	return entries, nil
}
