//go:build windows

package hwbp

// Slot is the value representation of one hardware-breakpoint register
// group: whether it's armed, the linear address it watches, and how.
//
// Invariant: when Condition == ConditionExecute, Length must be Length1 —
// the builder enforces this; Slot itself doesn't re-validate it so that a
// Slot decoded straight off hardware (which may legally carry any length
// the CPU happens to have loaded) round-trips faithfully.
type Slot struct {
	Enabled   bool
	Address   uint64
	Condition Condition
	Length    Length
}

// disabled returns a copy of s with Enabled forced false, keeping
// Address/Condition/Length as they were — used by DisableAll so addresses
// and conditions survive a disable/re-enable cycle.
func (s Slot) disabled() Slot {
	s.Enabled = false
	return s
}
