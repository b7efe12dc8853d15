package ports

import "time"

//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks

// FileSystem is the one seam between the engine and the real filesystem,
// per spec.md §6 "File System assumptions": stat returning ENOENT is
// "absent", every other stat failure is a BUILD error, and mtime
// comparisons treat ties as "equal, not older".
type FileSystem interface {
	// Stat returns the path's modification time and existence. A
	// non-existent path returns ok=false and a nil error — ENOENT is not
	// an error here, per spec.md §6.
	Stat(path string) (info FileInfo, ok bool, err error)
	// Remove deletes path if it exists; removing an absent path is not
	// an error (idempotent, for remove_if_existing).
	Remove(path string) error
	// ReadFile reads a whole file's content, used by $[...] variable
	// dependencies and by read_dynamics.
	ReadFile(path string) ([]byte, error)
	// WriteFile writes content to path, used by hardcoded-content rules.
	WriteFile(path string, content []byte) error
	// Copy copies src's content to dest, used by copy rules.
	Copy(dest, src string) error
}

// FileInfo is the subset of os.FileInfo the engine needs.
type FileInfo struct {
	ModTime time.Time
	IsDir   bool
	Size    int64
	// IsSymlink reports whether path itself (not what it resolves to) is
	// a symbolic link — verifyBuiltFiles excuses a symlinked output from
	// the "older than startup" staleness check, since a symlink's own
	// mtime doesn't reflect its target's freshness.
	IsSymlink bool
}
