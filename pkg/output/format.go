// Package output provides utilities for formatting and displaying
// installment quotes and schedules.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhiadhaw0/installment-engine/internal/engine"
	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable quote summary and schedule table.
func PrettyFormat(w io.Writer, result *engine.Result) {
	p := message.NewPrinter(language.English)

	params := result.Parameters
	fmt.Fprintf(w, "--- Installment quote (%s) ---\n", strings.ToLower(string(params.Frequency)))
	_, _ = p.Fprintf(w, "Total amount:  $%.2f\n", params.TotalAmount)
	_, _ = p.Fprintf(w, "Down payment:  $%.2f\n", params.DownPayment)
	_, _ = p.Fprintf(w, "Installments:  %d x $%.2f\n", params.PeriodCount, result.Amortization.InstallmentAmount)
	_, _ = p.Fprintf(w, "Total interest: $%.2f\n", result.Amortization.TotalInterest)
	_, _ = p.Fprintf(w, "Total payable:  $%.2f\n", result.Amortization.TotalPayable)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "#   | Due date   | Payment      | Principal    | Interest   | Balance\n")
	fmt.Fprintf(w, "___ | __________ | ____________ | ____________ | __________ | ____________\n")
	for _, entry := range result.Schedule {
		label := fmt.Sprintf("%3d", entry.SequenceNumber)
		if entry.Kind == plan.EntryDownPayment {
			label = " DP"
		}
		_, _ = p.Fprintf(w, "%s | %s | $%.2f | $%.2f | $%.2f | $%.2f\n",
			label, entry.DueDate.Format(datetime.DateLayout), entry.PaymentAmount,
			entry.PrincipalPortion, entry.InterestPortion, entry.RemainingBalance)
	}
}

// CsvFormat writes the schedule in comma-separated value format.
func CsvFormat(w io.Writer, result *engine.Result) {
	fmt.Fprintf(w, "\"sequence\",\"kind\",\"dueDate\",\"payment\",\"principal\",\"interest\",\"remainingBalance\"\n")
	for _, entry := range result.Schedule {
		fmt.Fprintf(w, "\"%d\",\"%s\",\"%s\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			entry.SequenceNumber, entry.Kind, entry.DueDate.Format(datetime.DateLayout),
			entry.PaymentAmount, entry.PrincipalPortion, entry.InterestPortion, entry.RemainingBalance)
	}
}
