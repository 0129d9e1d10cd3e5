//go:build !aligndebug

package align

const debugChecks = false
