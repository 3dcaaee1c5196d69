//go:build !unix && !windows

// Package membuf provides platform-specific helpers for reserving the
// anonymous memory that backs a console's simulated physical space.
package membuf

import "fmt"

// Map allocates the buffer on the Go heap when mmap is not available.
func Map(size int) ([]byte, func() error, error) {
	if size < 0 {
		return nil, nil, fmt.Errorf("membuf: negative size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
