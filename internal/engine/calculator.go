// Package engine implements the installment calculation core: the
// amortization calculator, the schedule generator, and the input governor
// that keeps user-supplied parameters valid.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/rates"
	"github.com/dhiadhaw0/installment-engine/pkg/mathutil"
	"go.uber.org/zap"
)

var (
	// ErrInvalidAmount indicates a negative total amount or down payment,
	// or a non-positive total amount where one is required.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPeriodCount indicates a non-positive installment count.
	ErrInvalidPeriodCount = errors.New("invalid period count")
)

// Calculator computes periodic installment amounts and aggregate interest
// from plan parameters using the standard declining-balance amortization
// formula.
type Calculator struct {
	rates  *rates.Table
	logger *zap.Logger
}

// NewCalculator creates a calculator backed by the given rate table.
func NewCalculator(table *rates.Table, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{rates: table, logger: logger}
}

// Compute derives the amortization result for the given inputs. Monetary
// results are rounded to the currency's minor unit at this boundary only;
// the formula itself runs unrounded to avoid compounding rounding error.
func (c *Calculator) Compute(totalAmount, downPayment float64, periodCount int, frequency plan.Frequency) (plan.AmortizationResult, error) {
	if totalAmount < 0 || downPayment < 0 {
		return plan.AmortizationResult{}, fmt.Errorf("%w: totalAmount=%.2f downPayment=%.2f", ErrInvalidAmount, totalAmount, downPayment)
	}
	if periodCount <= 0 {
		return plan.AmortizationResult{}, fmt.Errorf("%w: %d", ErrInvalidPeriodCount, periodCount)
	}

	remaining := totalAmount - downPayment
	if remaining <= 0 {
		// Fully covered by the down payment; no installment periods.
		return plan.AmortizationResult{
			InstallmentAmount: 0,
			TotalInterest:     0,
			TotalPayable:      mathutil.Round(totalAmount),
		}, nil
	}

	periodicRate, err := c.rates.PeriodicRate(frequency)
	if err != nil {
		return plan.AmortizationResult{}, err
	}

	var installment float64
	if periodicRate == 0 {
		// Straight line, no compounding.
		installment = remaining / float64(periodCount)
	} else {
		factor := math.Pow(1.00+periodicRate, float64(periodCount))
		installment = remaining * periodicRate * factor / (factor - 1.00)
	}

	// Round once, here at the boundary; the aggregates derive from the
	// rounded installment so that downPayment + N installments always
	// reconciles with the total payable exactly.
	installment = mathutil.Round(installment)

	totalInterest := installment*float64(periodCount) - remaining
	if periodicRate == 0 {
		totalInterest = 0
	}
	totalPayable := downPayment + installment*float64(periodCount)

	c.logger.Debug("computed amortization",
		zap.String("op", "engine.Compute"),
		zap.Float64("remaining", remaining),
		zap.Float64("installment", installment),
		zap.Int("periods", periodCount),
	)

	return plan.AmortizationResult{
		InstallmentAmount: installment,
		TotalInterest:     mathutil.Round(totalInterest),
		TotalPayable:      mathutil.Round(totalPayable),
	}, nil
}

// PeriodicRate exposes the per-period rate for the given frequency so the
// schedule generator can split payments with the same rate the installment
// was computed with.
func (c *Calculator) PeriodicRate(frequency plan.Frequency) (float64, error) {
	return c.rates.PeriodicRate(frequency)
}
