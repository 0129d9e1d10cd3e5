// Package align rounds addresses and sizes to power-of-two boundaries.
//
// Every function takes the alignment as a plain unsigned integer and assumes
// it is a power of two. The precondition is not checked unless the package is
// built with the aligndebug tag, in which case a violation panics. Results for
// other alignments are unspecified.
//
// All functions are pure and may be called concurrently.
package align

import "golang.org/x/exp/constraints"

// Unsigned is satisfied by every unsigned integer type, including uintptr.
type Unsigned = constraints.Unsigned

// Down returns the greatest multiple of alignment that is <= addr.
func Down[T Unsigned](addr, alignment T) T {
	assertPowerOfTwo(alignment)

	return addr &^ (alignment - 1)
}

// Up returns the smallest multiple of alignment that is >= addr.
//
// If addr+alignment-1 does not fit in T the result wraps around, so Up(255, 4)
// is 0 for a uint8. Use [UpChecked] to detect this.
func Up[T Unsigned](addr, alignment T) T {
	assertPowerOfTwo(alignment)

	return (addr + alignment - 1) &^ (alignment - 1)
}

// IsAligned reports whether addr is a multiple of alignment.
func IsAligned[T Unsigned](addr, alignment T) bool {
	assertPowerOfTwo(alignment)

	return addr&(alignment-1) == 0
}
