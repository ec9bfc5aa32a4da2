// Package constants provides shared constants for the milkminder application.
package constants

// Header cell coordinates on the uploaded workbook.
const (
	CellDays        = "B2"
	CellMilkSold    = "B3"
	CellMilkNotSold = "B4"
	CellInvoice     = "B5"
	CellCowsInMilk  = "B6"
	CellCowsEnd     = "B7"
)

// Feed table layout. Rows are absolute, 1-based spreadsheet rows.
const (
	// FeedStartRow is the first row of the feed table
	FeedStartRow = 12

	// FeedMaxRow is the absolute row at which the scan stops; it is never read
	FeedMaxRow = 200

	ColumnFeedType     = "A"
	ColumnKgPerHeadDay = "B"
	ColumnPriceTon     = "C"
	ColumnDryMatter    = "D"
	ColumnHeads        = "E"
)

// Unit constants
const (
	// KgPerTon converts as-fed kilograms into metric tons for pricing
	KgPerTon = 1000.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Display precision for formatted figures.
const (
	AmountDecimals   = 2
	PerLiterDecimals = 4

	// CSVDecimals drops float noise from machine-readable output
	CSVDecimals = 6
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides (e.g. MILKMINDER_OUTPUT_FORMAT)
	EnvPrefix = "MILKMINDER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for workbooks (10 MB)
	DefaultMaxUploadSizeBytes int64 = 10 * 1024 * 1024
)
