//go:build windows

package hwbp

// DR6 is the debug status register. Bits 0..3 are the per-slot hit flags
// (BS_n); this library reads and clears only those four bits, leaving
// single-step, task-switch, and RTM bits (4-15) untouched. See
// https://en.wikipedia.org/wiki/X86_debug_register#DR6_-_Debug_status
type DR6 uint64

// HitDR6 reports whether slot idx's hit flag is set.
func HitDR6(d DR6, idx SlotIndex) bool {
	return uint64(d)&(1<<uint(idx)) != 0
}

// ClearHitDR6 clears slot idx's hit flag and leaves every other bit of d
// untouched.
func ClearHitDR6(d DR6, idx SlotIndex) DR6 {
	return DR6(uint64(d) &^ (1 << uint(idx)))
}
