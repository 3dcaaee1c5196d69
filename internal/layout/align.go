package layout

// Alignment utilities for the console's address arithmetic. Block requests
// carry a power-of-two alignment; page frames live on 4 KiB boundaries.

// AlignUp returns addr aligned up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(5, 4)    = 8
//	AlignUp(8, 4)    = 8
//	AlignUp(1, 4096) = 4096
func AlignUp(addr, align uint32) uint32 {
	return (addr + align - 1) &^ (align - 1)
}

// PageFloor returns the base address of the page frame containing addr.
//
// Example:
//
//	PageFloor(0)    = 0
//	PageFloor(4095) = 0
//	PageFloor(4096) = 4096
func PageFloor(addr uint32) uint32 {
	return addr &^ PageMask
}

// PageIndex returns the frame number containing addr.
func PageIndex(addr uint32) uint32 {
	return addr / PageSize
}

// IsPow2 reports whether n is a power of two. Zero is not.
func IsPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
