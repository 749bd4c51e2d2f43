//go:build windows

package hwbp

// dispatch implements the scan-and-service step of the exception
// dispatcher, factored out of the OS-specific trampoline in
// handler_windows.go so it can be exercised by tests without a real #DB
// trap.
//
// It scans slots in ascending index for the first one that's both locally
// enabled in dr7 and marked hit in dr6 — that's the triggering slot;
// further hits in the same event are left for the next #DB: a multi-hit
// DR6 is serviced one slot per trap, lowest index first. If a
// callback is registered for that slot it's invoked with cpu; a missing
// callback is not an error, the hit bit is still cleared. dispatch never
// raises: an unmatched dr6/dr7 pair returns serviced=false with dr6
// unchanged, and DispatchException still resumes the single-step trap with
// continue-execution.
func dispatch(tid uint32, dr6 DR6, dr7 DR7, cpu *CPUContext) (newDR6 DR6, serviced bool) {
	for i := SlotFirst; i <= SlotFourth; i++ {
		enabled, _, _ := DecodeDR7(dr7, i)
		if !enabled || !HitDR6(dr6, i) {
			continue
		}

		if cb := callbacks.lookup(tid, i); cb != nil {
			cb(cpu)
		}

		return ClearHitDR6(dr6, i), true
	}

	return dr6, false
}
