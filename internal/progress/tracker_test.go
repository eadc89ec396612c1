package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithPeriods(periods int) *plan.InstallmentPlan {
	return &plan.InstallmentPlan{
		ID: "plan-1",
		Parameters: plan.PlanParameters{
			TotalAmount: 1000,
			DownPayment: 100,
			PeriodCount: periods,
			Frequency:   plan.FrequencyMonthly,
		},
		Status: plan.StatusActive,
	}
}

func paidOn(day string) *time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		periods       int
		payments      []plan.InstallmentPayment
		wantPaid      int
		wantRemaining int
		wantPercent   float64
	}{
		{
			name:          "No payments",
			periods:       4,
			payments:      nil,
			wantPaid:      0,
			wantRemaining: 4,
			wantPercent:   0,
		},
		{
			name:    "Half paid",
			periods: 4,
			payments: []plan.InstallmentPayment{
				{InstallmentNumber: 1, PaidDate: paidOn("2026-02-01"), Status: plan.PaymentPaid},
				{InstallmentNumber: 2, PaidDate: paidOn("2026-03-01"), Status: plan.PaymentPaid},
				{InstallmentNumber: 3, Status: plan.PaymentPending},
				{InstallmentNumber: 4, Status: plan.PaymentPending},
			},
			wantPaid:      2,
			wantRemaining: 2,
			wantPercent:   50,
		},
		{
			name:    "Unpaid entries without paid date do not count",
			periods: 4,
			payments: []plan.InstallmentPayment{
				{InstallmentNumber: 1, Status: plan.PaymentLate},
			},
			wantPaid:      0,
			wantRemaining: 4,
			wantPercent:   0,
		},
		{
			name:    "All paid",
			periods: 3,
			payments: []plan.InstallmentPayment{
				{InstallmentNumber: 1, PaidDate: paidOn("2026-02-01")},
				{InstallmentNumber: 2, PaidDate: paidOn("2026-03-01")},
				{InstallmentNumber: 3, PaidDate: paidOn("2026-04-01")},
			},
			wantPaid:      3,
			wantRemaining: 0,
			wantPercent:   100,
		},
		{
			name:    "More payments than periods clamps to 100",
			periods: 2,
			payments: []plan.InstallmentPayment{
				{InstallmentNumber: 1, PaidDate: paidOn("2026-02-01")},
				{InstallmentNumber: 2, PaidDate: paidOn("2026-03-01")},
				{InstallmentNumber: 3, PaidDate: paidOn("2026-04-01")},
			},
			wantPaid:      3,
			wantRemaining: 0,
			wantPercent:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(planWithPeriods(tt.periods), tt.payments)
			assert.Equal(t, tt.wantPaid, result.PaidCount)
			assert.Equal(t, tt.wantRemaining, result.RemainingCount)
			assert.InDelta(t, tt.wantPercent, result.PercentComplete, 0.001)
		})
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	stored := planWithPeriods(4)
	payments := []plan.InstallmentPayment{
		{InstallmentNumber: 1, PaidDate: paidOn("2026-02-01"), Status: plan.PaymentPaid},
	}

	before := *stored
	_ = Compute(stored, payments)

	assert.Equal(t, before, *stored)
	assert.Equal(t, plan.PaymentPaid, payments[0].Status)
}

type stubLister struct {
	payments []plan.InstallmentPayment
	err      error
	gotPlan  string
}

func (s *stubLister) ListPayments(ctx context.Context, planID string) ([]plan.InstallmentPayment, error) {
	s.gotPlan = planID
	return s.payments, s.err
}

func TestTrackerForPlan(t *testing.T) {
	lister := &stubLister{payments: []plan.InstallmentPayment{
		{InstallmentNumber: 1, PaidDate: paidOn("2026-02-01")},
	}}
	tracker := NewTracker(lister, nil)

	result, err := tracker.ForPlan(context.Background(), planWithPeriods(4))
	require.NoError(t, err)
	assert.Equal(t, "plan-1", lister.gotPlan)
	assert.Equal(t, 1, result.PaidCount)
	assert.Equal(t, 3, result.RemainingCount)
	assert.InDelta(t, 25.0, result.PercentComplete, 0.001)
}

func TestTrackerForPlanBackendError(t *testing.T) {
	lister := &stubLister{err: errors.New("backend down")}
	tracker := NewTracker(lister, nil)

	_, err := tracker.ForPlan(context.Background(), planWithPeriods(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan-1")
}
