package align

import "fmt"

// assertPowerOfTwo panics on a bad alignment in aligndebug builds. In other
// builds debugChecks is false and the call is eliminated.
func assertPowerOfTwo[T Unsigned](alignment T) {
	if debugChecks && !IsPowerOfTwo(alignment) {
		panic(fmt.Sprintf("align: alignment %d is not a power of two", uint64(alignment)))
	}
}
