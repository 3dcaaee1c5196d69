package mem

import "errors"

var (
	// ErrInvalidSize indicates init-time region sizing that cannot work
	// (zero total, kernel region past the end, empty user region).
	ErrInvalidSize = errors.New("mem: invalid region sizing")

	// ErrZeroSize indicates a zero-byte allocation request.
	ErrZeroSize = errors.New("mem: zero-size request")

	// ErrBadAlign indicates a requested alignment that is not a power of two.
	ErrBadAlign = errors.New("mem: alignment must be a power of two")

	// ErrOutOfMemory indicates that no free block or page frame can satisfy
	// the request.
	ErrOutOfMemory = errors.New("mem: out of memory")

	// ErrUnknownAddress indicates an address that matches no live allocated
	// block. Addresses handed out before a Compact call fail this way.
	ErrUnknownAddress = errors.New("mem: unknown block address")

	// ErrUnknownProcess indicates an operation on a process slot that is
	// not active.
	ErrUnknownProcess = errors.New("mem: process not active")

	// ErrBadProcessID indicates a process id outside the fixed table.
	ErrBadProcessID = errors.New("mem: process id out of range")

	// ErrProcessActive indicates a create on a slot that is already live.
	ErrProcessActive = errors.New("mem: process already active")

	// ErrNotInitialized indicates use of a zero or closed Manager.
	ErrNotInitialized = errors.New("mem: manager not initialized")
)
