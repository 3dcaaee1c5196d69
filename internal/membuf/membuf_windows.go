//go:build windows

package membuf

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map reserves size bytes of anonymous memory and returns the buffer.
func Map(size int) ([]byte, func() error, error) {
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size < 0 {
		return nil, nil, fmt.Errorf("membuf: negative size %d", size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("membuf: VirtualAlloc %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	released := false
	cleanup := func() error {
		if released {
			return nil
		}
		released = true
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, cleanup, nil
}
