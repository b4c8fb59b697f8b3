// Package wasmmem views host-owned linear memory as Go byte slices.
package wasmmem

import "unsafe"

// Bytes returns the length bytes starting at ptr without copying. A nil
// pointer or a non-positive length yields an empty slice.
func Bytes(ptr unsafe.Pointer, length int32) []byte {
	if ptr == nil || length <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), length)
}
