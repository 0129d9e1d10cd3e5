package align

// IsPowerOfTwo reports whether x is 2^k for some k. Zero is not a power of two.
func IsPowerOfTwo[T Unsigned](x T) bool {
	return x != 0 && x&(x-1) == 0
}

// UpChecked is like [Up], but ok is false if rounding up wrapped around the
// range of T. When ok is false the returned value is the wrapped result.
func UpChecked[T Unsigned](addr, alignment T) (val T, ok bool) {
	val = Up(addr, alignment)
	ok = val >= addr
	return
}

// MustUp is like [Up], but panics if rounding up overflows.
func MustUp[T Unsigned](addr, alignment T) T {
	val, ok := UpChecked(addr, alignment)
	if !ok {
		panic("align: rounding up overflows")
	}

	return val
}

// Offset returns the distance from the greatest boundary <= addr.
func Offset[T Unsigned](addr, alignment T) T {
	assertPowerOfTwo(alignment)

	return addr & (alignment - 1)
}

// Padding returns the number of bytes needed to advance addr to the next
// boundary; zero if addr is already aligned. It is correct even when
// [Up] would wrap.
func Padding[T Unsigned](addr, alignment T) T {
	return Up(addr, alignment) - addr
}
