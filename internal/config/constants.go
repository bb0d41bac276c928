package config

// Default paths and cover display bounds
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./mylibrary.db"

	// DefaultCoverMaxWidth and DefaultCoverMaxHeight bound the scaled cover
	// image; sources are scaled to fit inside this box with aspect preserved.
	DefaultCoverMaxWidth  = 280
	DefaultCoverMaxHeight = 380
)
