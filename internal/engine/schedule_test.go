package engine

import (
	"math"
	"testing"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/rates"
	"github.com/dhiadhaw0/installment-engine/pkg/datetime"
)

func generateForTest(t *testing.T, totalAmount, downPayment float64, periodCount int, frequency plan.Frequency) []plan.ScheduleEntry {
	t.Helper()

	table := rates.NewDefaultTable()
	calc := NewCalculator(table, nil)
	gen := NewScheduleGenerator(nil)

	result, err := calc.Compute(totalAmount, downPayment, periodCount, frequency)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	periodicRate, err := table.PeriodicRate(frequency)
	if err != nil {
		t.Fatalf("PeriodicRate returned error: %v", err)
	}

	start := datetime.MustParseTime(datetime.DateLayout, "2026-01-15")
	entries, err := gen.Generate(totalAmount, downPayment, periodicRate, result.InstallmentAmount, periodCount, frequency, start)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	return entries
}

func TestGenerateDownPaymentEntry(t *testing.T) {
	entries := generateForTest(t, 1000, 100, 4, plan.FrequencyMonthly)

	if len(entries) != 5 {
		t.Fatalf("schedule has %d entries, expected 5 (down payment + 4 installments)", len(entries))
	}

	first := entries[0]
	if first.Kind != plan.EntryDownPayment {
		t.Errorf("first entry kind = %s, expected DOWN_PAYMENT", first.Kind)
	}
	if first.SequenceNumber != 0 {
		t.Errorf("first entry sequence = %d, expected 0", first.SequenceNumber)
	}
	if first.PaymentAmount != 100 || first.PrincipalPortion != 100 {
		t.Errorf("down payment entry = %+v, expected payment and principal of 100", first)
	}
	if first.InterestPortion != 0 {
		t.Errorf("down payment interest = %v, expected 0", first.InterestPortion)
	}
	if first.RemainingBalance != 900 {
		t.Errorf("down payment remaining balance = %v, expected 900", first.RemainingBalance)
	}
}

func TestGenerateNoDownPaymentOmitsSequenceZero(t *testing.T) {
	entries := generateForTest(t, 600, 0, 3, plan.FrequencyMonthly)

	if len(entries) != 3 {
		t.Fatalf("schedule has %d entries, expected 3", len(entries))
	}
	if entries[0].SequenceNumber != 1 {
		t.Errorf("first entry sequence = %d, expected 1", entries[0].SequenceNumber)
	}
	for _, entry := range entries {
		if entry.Kind != plan.EntryInstallment {
			t.Errorf("entry %d kind = %s, expected INSTALLMENT", entry.SequenceNumber, entry.Kind)
		}
	}
}

func TestGenerateFinalBalanceIsZero(t *testing.T) {
	tests := []struct {
		name        string
		totalAmount float64
		downPayment float64
		periodCount int
		frequency   plan.Frequency
	}{
		{"Short monthly", 1000, 100, 4, plan.FrequencyMonthly},
		{"Long monthly", 12000, 1200, 24, plan.FrequencyMonthly},
		{"Weekly full cap", 5200, 520, 52, plan.FrequencyWeekly},
		{"Quarterly", 8000, 2000, 8, plan.FrequencyQuarterly},
		{"Awkward amounts", 999.99, 123.45, 7, plan.FrequencyMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := generateForTest(t, tt.totalAmount, tt.downPayment, tt.periodCount, tt.frequency)

			last := entries[len(entries)-1]
			if last.RemainingBalance != 0 {
				t.Errorf("final remaining balance = %v, expected exactly 0", last.RemainingBalance)
			}

			// The principal portions must retire the financed amount.
			principalSum := 0.0
			for _, entry := range entries {
				if entry.Kind == plan.EntryInstallment {
					principalSum += entry.PrincipalPortion
				}
			}
			// Per-entry rounding can drift by up to half a cent per period.
			financed := tt.totalAmount - tt.downPayment
			if math.Abs(principalSum-financed) > 0.01*float64(tt.periodCount) {
				t.Errorf("sum of principal portions = %v, expected ~%v", principalSum, financed)
			}
		})
	}
}

func TestGenerateMonotonicDueDates(t *testing.T) {
	tests := []struct {
		name        string
		frequency   plan.Frequency
		periodCount int
	}{
		{"Weekly", plan.FrequencyWeekly, 10},
		{"Monthly", plan.FrequencyMonthly, 12},
		{"Quarterly", plan.FrequencyQuarterly, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := generateForTest(t, 2000, 200, tt.periodCount, tt.frequency)
			for i := 1; i < len(entries); i++ {
				if !entries[i-1].DueDate.Before(entries[i].DueDate) {
					t.Errorf("due dates not strictly increasing at index %d: %v then %v",
						i, entries[i-1].DueDate, entries[i].DueDate)
				}
			}
		})
	}
}

func TestGenerateDueDateSpacing(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2026-01-15")

	entries := generateForTest(t, 1000, 100, 4, plan.FrequencyWeekly)
	// entries[0] is the down payment at the start date.
	if !entries[0].DueDate.Equal(start) {
		t.Errorf("down payment due date = %v, expected %v", entries[0].DueDate, start)
	}
	for i := 1; i < len(entries); i++ {
		expected := start.AddDate(0, 0, 7*i)
		if !entries[i].DueDate.Equal(expected) {
			t.Errorf("entry %d due date = %v, expected %v", i, entries[i].DueDate, expected)
		}
	}
}

func TestGenerateInterestDeclines(t *testing.T) {
	entries := generateForTest(t, 12000, 1200, 24, plan.FrequencyMonthly)

	previous := math.MaxFloat64
	for _, entry := range entries {
		if entry.Kind != plan.EntryInstallment {
			continue
		}
		if entry.InterestPortion > previous {
			t.Errorf("interest portion increased at entry %d: %v after %v",
				entry.SequenceNumber, entry.InterestPortion, previous)
		}
		previous = entry.InterestPortion
	}
}

func TestGenerateFullyCoveredPlanHasNoInstallments(t *testing.T) {
	gen := NewScheduleGenerator(nil)
	start := datetime.MustParseTime(datetime.DateLayout, "2026-01-15")

	entries, err := gen.Generate(500, 500, 0.005, 0, 4, plan.FrequencyMonthly, start)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("schedule has %d entries, expected only the down payment", len(entries))
	}
	if entries[0].Kind != plan.EntryDownPayment {
		t.Errorf("entry kind = %s, expected DOWN_PAYMENT", entries[0].Kind)
	}
	if entries[0].RemainingBalance != 0 {
		t.Errorf("remaining balance = %v, expected 0", entries[0].RemainingBalance)
	}
}
