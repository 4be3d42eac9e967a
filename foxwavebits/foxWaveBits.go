// Package foxwavebits holds the little-endian primitive readers the format
// parser builds on top of. WAVE is defined little-endian regardless of host
// byte order, so these never consult runtime endianness the way the
// original dr_wav's drwav__is_little_endian-style check would.
package foxwavebits

// ReadU16LE reads a 16-bit little-endian unsigned integer from the first two
// bytes of b. The caller is responsible for ensuring len(b) >= 2.
func ReadU16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// ReadU32LE reads a 32-bit little-endian unsigned integer from the first
// four bytes of b. The caller is responsible for ensuring len(b) >= 4.
func ReadU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// ReadGUID copies the first 16 bytes of b into a fixed-size array, exactly
// as they appear in the file (no byte-order normalization — a GUID's wire
// layout already mixes big- and little-endian fields and is treated here as
// an opaque 16-byte blob).
func ReadGUID(b []byte) [16]byte {
	var guid [16]byte
	copy(guid[:], b[:16])
	return guid
}
