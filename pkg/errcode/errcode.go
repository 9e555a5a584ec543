package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	ParseFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBExtensionError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Store errors
	StoreOpenError
	StoreDriverError

	// Spatial errors
	InvalidCoordinateError
	InvalidCellError

	// Bucket errors
	BucketNotFoundError
	PersistenceError
	ResolutionFailedError
	UnexpectedError

	// Listing errors
	InvalidListingError
	AttachListingError

	// Query errors
	StatsError
	SearchError

	// Optimizer errors
	OptimizerRecountError
	OptimizerVacuumError

	// Metrics errors
	MetricsWriteError
)
