package align

import "lukechampine.com/uint128"

// The 128-bit variants mirror the generic functions for [uint128.Uint128],
// which cannot satisfy [Unsigned].

// IsPowerOfTwo128 reports whether x is 2^k for some k.
func IsPowerOfTwo128(x uint128.Uint128) bool {
	return x.OnesCount() == 1
}

// Down128 returns the greatest multiple of alignment that is <= addr.
func Down128(addr, alignment uint128.Uint128) uint128.Uint128 {
	assertPowerOfTwo128(alignment)

	return addr.And(mask128(alignment).Xor(uint128.Max))
}

// Up128 returns the smallest multiple of alignment that is >= addr, wrapping
// around on overflow.
func Up128(addr, alignment uint128.Uint128) uint128.Uint128 {
	return Down128(addr.AddWrap(mask128(alignment)), alignment)
}

// UpChecked128 is like [Up128], but ok is false if rounding up wrapped.
func UpChecked128(addr, alignment uint128.Uint128) (val uint128.Uint128, ok bool) {
	val = Up128(addr, alignment)
	ok = val.Cmp(addr) >= 0
	return
}

// IsAligned128 reports whether addr is a multiple of alignment.
func IsAligned128(addr, alignment uint128.Uint128) bool {
	assertPowerOfTwo128(alignment)

	return addr.And(mask128(alignment)).IsZero()
}

func mask128(alignment uint128.Uint128) uint128.Uint128 {
	return alignment.SubWrap64(1)
}

func assertPowerOfTwo128(alignment uint128.Uint128) {
	if debugChecks && !IsPowerOfTwo128(alignment) {
		panic("align: alignment " + alignment.String() + " is not a power of two")
	}
}
