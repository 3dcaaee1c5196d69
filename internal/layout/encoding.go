package layout

import "encoding/binary"

// Binary encoding utilities for little-endian integers and the fixed-width
// NUL-padded text fields used by the game header and directory entries.
//
// Implementation: Uses encoding/binary.LittleEndian. The standard library
// implementation is already highly optimized by the compiler; unsafe
// variants buy nothing here.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes an int32 value to the buffer at the specified offset in little-endian format.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU16 reads a uint16 value from the buffer at the specified offset in little-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadI32 reads an int32 value from the buffer at the specified offset in little-endian format.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// PutString writes s into the fixed-width field b[off:off+width], truncating
// if needed and NUL-padding the remainder.
func PutString(b []byte, off, width int, s string) {
	field := b[off : off+width]
	n := copy(field, s)
	for i := n; i < width; i++ {
		field[i] = 0
	}
}

// FieldBytes returns the bytes of the fixed-width field b[off:off+width] up
// to the first NUL. The slice aliases b.
func FieldBytes(b []byte, off, width int) []byte {
	field := b[off : off+width]
	for i, c := range field {
		if c == 0 {
			return field[:i]
		}
	}
	return field
}
