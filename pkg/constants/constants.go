// Package constants provides shared constants for the loan-amortizer application.
package constants

// Payment frequency constants
const (
	// MonthsPerYear is the number of monthly periods in a year
	MonthsPerYear = 12

	// BiWeeksPerYear is the number of bi-weekly periods in a year
	BiWeeksPerYear = 26

	// WeeksPerYear is the number of weekly periods in a year
	WeeksPerYear = 52
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places printed for currency values
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PeriodEpsilon absorbs floating point noise before rounding a period count up
	PeriodEpsilon = 1e-9
)

// Limits
const (
	// DefaultMaxPeriods bounds the schedule length (50 years of weekly payments)
	DefaultMaxPeriods = 2600
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatExcel is the spreadsheet output format
	OutputFormatExcel = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "AMORTIZER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultDatabasePath is the default SQLite database path for saved scenarios
	DefaultDatabasePath = "loan-amortizer.db"

	// DefaultServiceName is the service name reported to tracing backends
	DefaultServiceName = "loan-amortizer"
)
