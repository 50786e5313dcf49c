package common

import (
	"encoding/binary"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PutFloat32s writes values into buf as consecutive little-endian float32s starting at offset.
// Returns the offset just past the last written value.
//
// Parameters:
//   - buf: destination buffer (must have room for len(values)*4 bytes after offset)
//   - offset: byte offset of the first value
//   - values: the floats to write
//
// Returns:
//   - int: the byte offset following the written values
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}
