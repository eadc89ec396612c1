// Package rates provides the rate table: the per-frequency interest rate and
// period cap used by the amortization calculator. Values are business
// constants injected through configuration, with compiled defaults.
package rates

import (
	"errors"
	"fmt"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/pkg/constants"
)

// ErrUnknownFrequency indicates a lookup for a frequency the table does not
// carry.
var ErrUnknownFrequency = errors.New("unknown payment frequency")

// Table maps payment frequencies to their rate entries. Immutable after
// construction; lookups have no side effects.
type Table struct {
	entries map[plan.Frequency]plan.RateEntry
}

// NewDefaultTable returns a table populated with the default business rates.
func NewDefaultTable() *Table {
	return NewTable([]plan.RateEntry{
		{
			Frequency:         plan.FrequencyWeekly,
			AnnualRatePercent: constants.DefaultWeeklyAnnualRate,
			PeriodsPerYear:    constants.WeeksPerYear,
			PeriodCap:         constants.DefaultWeeklyPeriodCap,
		},
		{
			Frequency:         plan.FrequencyMonthly,
			AnnualRatePercent: constants.DefaultMonthlyAnnualRate,
			PeriodsPerYear:    constants.MonthsPerYear,
			PeriodCap:         constants.DefaultMonthlyPeriodCap,
		},
		{
			Frequency:         plan.FrequencyQuarterly,
			AnnualRatePercent: constants.DefaultQuarterlyAnnualRate,
			PeriodsPerYear:    constants.QuartersPerYear,
			PeriodCap:         constants.DefaultQuarterlyPeriodCap,
		},
	})
}

// NewTable builds a table from explicit entries. Entries with an unsupported
// frequency are ignored; missing periods-per-year values fall back to the
// frequency's natural period count.
func NewTable(entries []plan.RateEntry) *Table {
	t := &Table{entries: make(map[plan.Frequency]plan.RateEntry)}
	for _, entry := range entries {
		if !entry.Frequency.Valid() {
			continue
		}
		if entry.PeriodsPerYear <= 0 {
			entry.PeriodsPerYear = entry.Frequency.PeriodsPerYear()
		}
		t.entries[entry.Frequency] = entry
	}
	return t
}

// RateFor returns the rate entry for the given frequency.
func (t *Table) RateFor(frequency plan.Frequency) (plan.RateEntry, error) {
	entry, ok := t.entries[frequency]
	if !ok {
		return plan.RateEntry{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
	}
	return entry, nil
}

// PeriodicRate returns the per-period interest rate for the given frequency
// as a fraction (e.g. 0.0049917 for 5.99%/yr monthly).
func (t *Table) PeriodicRate(frequency plan.Frequency) (float64, error) {
	entry, err := t.RateFor(frequency)
	if err != nil {
		return 0, err
	}
	return entry.AnnualRatePercent / (constants.PercentageMultiplier * float64(entry.PeriodsPerYear)), nil
}

// PeriodCap returns the maximum installment count for the given frequency.
func (t *Table) PeriodCap(frequency plan.Frequency) (int, error) {
	entry, err := t.RateFor(frequency)
	if err != nil {
		return 0, err
	}
	return entry.PeriodCap, nil
}

// Entries returns the table contents ordered weekly, monthly, quarterly.
func (t *Table) Entries() []plan.RateEntry {
	order := []plan.Frequency{plan.FrequencyWeekly, plan.FrequencyMonthly, plan.FrequencyQuarterly}
	entries := make([]plan.RateEntry, 0, len(t.entries))
	for _, freq := range order {
		if entry, ok := t.entries[freq]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
