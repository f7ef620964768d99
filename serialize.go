package multisig

// Offset-based byte codec shared by every value type. Serialize writes a
// fixed-width block at the given offset into a growable buffer and returns
// the buffer along with the offset just past the written bytes, so several
// values can be packed back to back into one consensus message.

// putBytes writes b into dst at offset, growing dst if it is too short.
// Returns the (possibly reallocated) buffer and the next write offset.
func putBytes(dst []byte, offset int, b []byte) ([]byte, int) {
	end := offset + len(b)
	if end > len(dst) {
		grown := make([]byte, end)
		copy(grown, dst)
		dst = grown
	}
	copy(dst[offset:end], b)
	return dst, end
}

// readBytes returns the width bytes of src starting at offset.
// Fails when fewer than width bytes remain.
func readBytes(src []byte, offset, width int) ([]byte, error) {
	if offset < 0 || width < 0 {
		return nil, ErrBufferTooShort
	}
	if len(src)-offset < width {
		return nil, ErrBufferTooShort
	}
	return src[offset : offset+width], nil
}

// SecureCompare performs constant-time comparison of byte slices
func SecureCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}

	return result == 0
}

// ZeroizeBytes securely clears a byte slice
func ZeroizeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeScalarSlice securely clears a slice of scalars
func ZeroizeScalarSlice(scalars []Scalar) {
	for _, scalar := range scalars {
		if scalar != nil {
			scalar.Zeroize()
		}
	}
}
