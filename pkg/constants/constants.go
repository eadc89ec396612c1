// Package constants provides shared constants for the installment engine.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of weekly payment periods in a year
	WeeksPerYear = 52

	// QuartersPerYear is the number of quarterly payment periods in a year
	QuartersPerYear = 4

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Default rate table values. These are business constants that may be
// overridden through the configuration file.
const (
	// DefaultMonthlyAnnualRate is the default annual rate (%) for monthly plans
	DefaultMonthlyAnnualRate = 5.99

	// DefaultQuarterlyAnnualRate is the default annual rate (%) for quarterly plans
	DefaultQuarterlyAnnualRate = 6.29

	// DefaultWeeklyAnnualRate is the default annual rate (%) for weekly plans
	DefaultWeeklyAnnualRate = 6.99

	// DefaultMonthlyPeriodCap is the maximum number of monthly installments
	DefaultMonthlyPeriodCap = 24

	// DefaultQuarterlyPeriodCap is the maximum number of quarterly installments
	DefaultQuarterlyPeriodCap = 8

	// DefaultWeeklyPeriodCap is the maximum number of weekly installments
	DefaultWeeklyPeriodCap = 52
)

// Plan policy constants
const (
	// DefaultMinDownPaymentRate is the minimum down payment as a fraction of
	// the total amount, used when eligibility does not supply a tighter bound
	DefaultMinDownPaymentRate = 0.10

	// CreditGuaranteeRate caps the credit guarantee at this fraction of the
	// total amount
	CreditGuaranteeRate = 0.50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultBackendTimeoutSeconds is the default timeout for backend calls
	DefaultBackendTimeoutSeconds = 10
)
