// Package plan defines the data structures shared across the installment
// engine: plan parameters, amortization results, schedules, and the records
// exchanged with the backend collaborators.
package plan

import (
	"time"

	"github.com/dhiadhaw0/installment-engine/pkg/constants"
	"github.com/dhiadhaw0/installment-engine/pkg/datetime"
)

// Frequency identifies how often installments fall due.
type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
)

// Valid reports whether the frequency is one of the supported values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of payment periods per year for the
// frequency, or 0 for an unknown frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return constants.WeeksPerYear
	case FrequencyMonthly:
		return constants.MonthsPerYear
	case FrequencyQuarterly:
		return constants.QuartersPerYear
	}
	return 0
}

// Advance returns the date offset from start by the given number of periods
// of this frequency.
func (f Frequency) Advance(start time.Time, periods int) time.Time {
	switch f {
	case FrequencyWeekly:
		return datetime.OffsetDays(start, 7*periods)
	case FrequencyQuarterly:
		return datetime.OffsetMonths(start, 3*periods)
	default:
		return datetime.OffsetMonths(start, periods)
	}
}

// PlanParameters holds the user-editable inputs of an installment plan.
type PlanParameters struct {
	TotalAmount float64   `json:"totalAmount"`
	DownPayment float64   `json:"downPayment"`
	PeriodCount int       `json:"periodCount"`
	Frequency   Frequency `json:"frequency"`
}

// RateEntry holds the rate configuration for one payment frequency.
type RateEntry struct {
	Frequency         Frequency `json:"frequency"`
	AnnualRatePercent float64   `json:"annualRatePercent"`
	PeriodsPerYear    int       `json:"periodsPerYear"`
	PeriodCap         int       `json:"periodCap"`
}

// AmortizationResult holds the derived financing figures for a set of plan
// parameters. It is recomputed on every parameter change and never persisted
// on its own.
type AmortizationResult struct {
	InstallmentAmount float64 `json:"installmentAmount"`
	TotalInterest     float64 `json:"totalInterest"`
	TotalPayable      float64 `json:"totalPayable"`
}

// EntryKind distinguishes the down payment line from regular installments.
type EntryKind string

const (
	EntryDownPayment EntryKind = "DOWN_PAYMENT"
	EntryInstallment EntryKind = "INSTALLMENT"
)

// ScheduleEntry is one line of the amortization table.
type ScheduleEntry struct {
	SequenceNumber   int       `json:"sequenceNumber"`
	DueDate          time.Time `json:"dueDate"`
	PaymentAmount    float64   `json:"paymentAmount"`
	PrincipalPortion float64   `json:"principalPortion"`
	InterestPortion  float64   `json:"interestPortion"`
	RemainingBalance float64   `json:"remainingBalance"`
	Kind             EntryKind `json:"kind"`
}

// Eligibility is the backend's verdict on whether a user may enter an
// installment plan, together with the bounds it imposes. Consumed read-only.
type Eligibility struct {
	IsEligible      bool     `json:"isEligible"`
	MinDownPayment  float64  `json:"minDownPayment"`
	MaxInstallments int      `json:"maxInstallments"`
	Reasons         []string `json:"reasons,omitempty"`
}

// CreditBalance is the backend's view of a user's available credits.
type CreditBalance struct {
	AvailableCredits float64 `json:"availableCredits"`
}

// PlanStatus is the backend-owned lifecycle status of a persisted plan.
type PlanStatus string

const (
	StatusPending   PlanStatus = "PENDING"
	StatusActive    PlanStatus = "ACTIVE"
	StatusCompleted PlanStatus = "COMPLETED"
	StatusOverdue   PlanStatus = "OVERDUE"
	StatusCancelled PlanStatus = "CANCELLED"
)

// InstallmentPlan is the full plan record. The engine assembles it once at
// confirmation; after submission the backend owns it and the engine treats
// every field, status included, as read-only display data.
type InstallmentPlan struct {
	ID              string             `json:"id,omitempty"`
	Reference       string             `json:"reference"`
	UserID          string             `json:"userId"`
	FormationID     string             `json:"formationId"`
	Parameters      PlanParameters     `json:"parameters"`
	Amortization    AmortizationResult `json:"amortization"`
	Schedule        []ScheduleEntry    `json:"schedule"`
	CreditGuarantee float64            `json:"creditGuarantee"`
	Status          PlanStatus         `json:"status,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// PaymentStatus is the backend-owned status of a single installment payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentLate    PaymentStatus = "LATE"
)

// InstallmentPayment is one recorded payment against a persisted plan.
// Owned by the backend; consumed read-only.
type InstallmentPayment struct {
	PlanID            string        `json:"planId"`
	InstallmentNumber int           `json:"installmentNumber"`
	Amount            float64       `json:"amount"`
	DueDate           time.Time     `json:"dueDate"`
	PaidDate          *time.Time    `json:"paidDate,omitempty"`
	Status            PaymentStatus `json:"status"`
}
