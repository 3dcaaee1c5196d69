package fs

import "errors"

var (
	// ErrNoSpace indicates the volume is out of data blocks or inodes.
	ErrNoSpace = errors.New("fs: no space on volume")

	// ErrNotFound indicates a path that resolves to nothing.
	ErrNotFound = errors.New("fs: file not found")

	// ErrExists indicates a create or mkdir over an existing entry.
	ErrExists = errors.New("fs: file exists")

	// ErrBadDescriptor indicates a descriptor that is closed or out of
	// the open-file table.
	ErrBadDescriptor = errors.New("fs: bad file descriptor")

	// ErrBadPath indicates an empty, relative, or over-long path, or a
	// component longer than the filename limit.
	ErrBadPath = errors.New("fs: bad path")

	// ErrNotDirectory indicates a path component that is a regular file.
	ErrNotDirectory = errors.New("fs: not a directory")

	// ErrIsDirectory indicates a file operation aimed at a directory.
	ErrIsDirectory = errors.New("fs: is a directory")

	// ErrFileTooLarge indicates a write past the direct-block limit.
	ErrFileTooLarge = errors.New("fs: file too large")

	// ErrNotFormatted indicates use of a volume before Format.
	ErrNotFormatted = errors.New("fs: volume not formatted")

	// ErrTooManyOpen indicates the open-file table is full.
	ErrTooManyOpen = errors.New("fs: too many open files")

	// ErrNotEmpty indicates a delete aimed at a directory that still
	// holds entries.
	ErrNotEmpty = errors.New("fs: directory not empty")
)
