package schema

// Custom string types for type safety.
type (
	// Label is the three-way sentiment category of a commit message.
	Label string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All sentiment labels.
const (
	PositiveLabel Label = "positive"
	NeutralLabel  Label = "neutral"
	NegativeLabel Label = "negative"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllLabels returns labels in display order.
var AllLabels = []Label{PositiveLabel, NeutralLabel, NegativeLabel}

// ValidLabels lists all valid sentiment labels.
var ValidLabels = map[Label]struct{}{
	PositiveLabel: {},
	NeutralLabel:  {},
	NegativeLabel: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
