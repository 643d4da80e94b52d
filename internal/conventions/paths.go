package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default grader data directory name (relative to home).
	DefaultDataDir = ".grader"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "grader.db"
	// DefaultListenAddr is the default address of the submission intake API.
	DefaultListenAddr = ":5001"
)

// DBPath returns the database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// DefaultDBPath returns the default database path for a home directory.
func DefaultDBPath(home string) string {
	return DBPath(filepath.Join(home, DefaultDataDir))
}
