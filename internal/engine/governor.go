package engine

import (
	"fmt"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/rates"
	"github.com/dhiadhaw0/installment-engine/pkg/constants"
	"github.com/dhiadhaw0/installment-engine/pkg/mathutil"
	"go.uber.org/zap"
)

// Result bundles the clamped parameters with the recomputed amortization and
// schedule. Republished in full after every parameter change.
type Result struct {
	Parameters   plan.PlanParameters     `json:"parameters"`
	Amortization plan.AmortizationResult `json:"amortization"`
	Schedule     []plan.ScheduleEntry    `json:"schedule"`
}

// Governor validates and clamps user-supplied plan parameters and triggers
// recomputation through the calculator and schedule generator. User fields
// never produce a hard error; out-of-range values are silently corrected.
// Only a non-positive total amount, which is supplied by context rather than
// the user, fails the whole engine.
type Governor struct {
	rates      *rates.Table
	calculator *Calculator
	schedule   *ScheduleGenerator
	logger     *zap.Logger
}

// NewGovernor creates a governor with its own calculator and schedule
// generator on top of the given rate table.
func NewGovernor(table *rates.Table, logger *zap.Logger) *Governor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Governor{
		rates:      table,
		calculator: NewCalculator(table, logger),
		schedule:   NewScheduleGenerator(logger),
		logger:     logger,
	}
}

// Clamp corrects the parameters against the rate table caps and the optional
// eligibility bounds. Clamping is idempotent: applying it twice yields the
// same parameters as applying it once.
func (g *Governor) Clamp(params plan.PlanParameters, eligibility *plan.Eligibility) (plan.PlanParameters, error) {
	if params.TotalAmount <= 0 {
		return params, fmt.Errorf("%w: totalAmount=%.2f", ErrInvalidAmount, params.TotalAmount)
	}

	entry, err := g.rates.RateFor(params.Frequency)
	if err != nil {
		return params, err
	}

	minDown := params.TotalAmount * constants.DefaultMinDownPaymentRate
	if eligibility != nil && eligibility.MinDownPayment > 0 {
		minDown = mathutil.Max(eligibility.MinDownPayment, minDown)
	}

	clamped := params
	switch {
	case params.DownPayment >= params.TotalAmount:
		// A down payment at or above the total would leave nothing to
		// finance; reset to the minimum rather than reject.
		clamped.DownPayment = minDown
	case params.DownPayment < minDown:
		clamped.DownPayment = minDown
	}

	cap := entry.PeriodCap
	if eligibility != nil && eligibility.MaxInstallments > 0 && eligibility.MaxInstallments < cap {
		cap = eligibility.MaxInstallments
	}
	clamped.PeriodCount = mathutil.ClampInt(params.PeriodCount, 1, cap)

	if clamped != params {
		g.logger.Debug("clamped plan parameters",
			zap.String("op", "engine.Clamp"),
			zap.Float64("downPayment", clamped.DownPayment),
			zap.Int("periodCount", clamped.PeriodCount),
		)
	}

	return clamped, nil
}

// Apply clamps the parameters and recomputes the amortization result and
// schedule, returning all three together.
func (g *Governor) Apply(params plan.PlanParameters, eligibility *plan.Eligibility, startDate time.Time) (*Result, error) {
	clamped, err := g.Clamp(params, eligibility)
	if err != nil {
		return nil, err
	}

	amortization, err := g.calculator.Compute(clamped.TotalAmount, clamped.DownPayment, clamped.PeriodCount, clamped.Frequency)
	if err != nil {
		return nil, err
	}

	periodicRate, err := g.rates.PeriodicRate(clamped.Frequency)
	if err != nil {
		return nil, err
	}

	schedule, err := g.schedule.Generate(clamped.TotalAmount, clamped.DownPayment, periodicRate,
		amortization.InstallmentAmount, clamped.PeriodCount, clamped.Frequency, startDate)
	if err != nil {
		return nil, err
	}

	return &Result{
		Parameters:   clamped,
		Amortization: amortization,
		Schedule:     schedule,
	}, nil
}
