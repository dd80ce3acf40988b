package wbxml

// appendMultiByteUint appends v as an mb_u_int32: big-endian groups of seven
// bits, every byte but the last carrying the continuation bit.
func appendMultiByteUint(dst []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7F)
	v >>= 7
	for v > 0 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	return append(dst, tmp[i:]...)
}

// readMultiByteUint decodes an mb_u_int32 starting at buf[off] and returns the
// value and the offset just past it.
func readMultiByteUint(buf []byte, off int) (uint32, int, error) {
	var v uint32
	for i := 0; i < 5; i++ {
		if off >= len(buf) {
			return 0, off, ErrTruncated
		}
		b := buf[off]
		off++
		if v > (^uint32(0))>>7 {
			return 0, off, ErrIntegerOverflow
		}
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, off, nil
		}
	}
	return 0, off, ErrIntegerOverflow
}
