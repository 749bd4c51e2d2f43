//go:build windows

package hwbp

// Context is a per-thread mirror of the four hardware-breakpoint slots.
// It's created from a thread's CPU context (Current/ForThread), mutated in
// memory by a Builder or by Set/DisableAll, and written back to the OS by
// one of the Apply* methods. Slots and Contexts are owned by the caller;
// only Apply* touches hardware.
type Context struct {
	bps [4]Breakpoint
}

// newContextFromRaw decodes the four DR0-3 address registers and the
// shared DR7 control register into a Context, pulling each slot's callback
// out of the process-wide registry (it was installed by whichever Apply*
// call last wrote this thread's context).
func newContextFromRaw(dr0, dr1, dr2, dr3 uint64, dr7 DR7, tid uint32) Context {
	raw := [4]uint64{dr0, dr1, dr2, dr3}
	var c Context
	for i := range c.bps {
		idx := SlotIndex(i)
		enabled, cond, length := DecodeDR7(dr7, idx)
		c.bps[i] = Breakpoint{
			index: idx,
			slot: Slot{
				Enabled:   enabled,
				Address:   raw[i],
				Condition: cond,
				Length:    length,
			},
			callback: callbacks.lookup(tid, idx),
		}
	}
	return c
}

// Unused returns a Builder bound to the lowest-index slot whose Enabled
// flag is false, or nil if all four slots are enabled.
func (c *Context) Unused() *Builder {
	for i := range c.bps {
		if !c.bps[i].slot.Enabled {
			return newBuilder(c, SlotIndex(i))
		}
	}
	return nil
}

// First returns the breakpoint bound to DR0.
func (c *Context) First() Breakpoint { return c.bps[SlotFirst] }

// Second returns the breakpoint bound to DR1.
func (c *Context) Second() Breakpoint { return c.bps[SlotSecond] }

// Third returns the breakpoint bound to DR2.
func (c *Context) Third() Breakpoint { return c.bps[SlotThird] }

// Fourth returns the breakpoint bound to DR3.
func (c *Context) Fourth() Breakpoint { return c.bps[SlotFourth] }

// Set replaces the slot at bp.Index() with bp. A Breakpoint carrying an
// out-of-range index — not obtainable through this package's own API, but
// Breakpoint's fields aren't otherwise guarded — is silently ignored.
func (c *Context) Set(bp Breakpoint) {
	if !bp.index.valid() {
		return
	}
	c.bps[bp.index] = bp
}

// buildAndSet installs slot/callback at idx and returns the resulting
// Breakpoint. Called only by Builder.BuildAndSet.
func (c *Context) buildAndSet(idx SlotIndex, slot Slot, callback Callback) Breakpoint {
	bp := Breakpoint{index: idx, slot: slot, callback: callback}
	c.bps[idx] = bp
	return bp
}

// DisableAll sets Enabled=false on all four slots, leaving their
// addresses, conditions, and lengths intact.
func (c *Context) DisableAll() {
	for i := range c.bps {
		c.bps[i].slot = c.bps[i].slot.disabled()
	}
}

// overlay computes the new DR0-3/DR7 values and callback row for writing
// this Context to hardware, given the DR7 value currently loaded on the
// target thread (so that non-slot bits — global enables, RTM, PT-log —
// pass through untouched).
func (c *Context) overlay(currentDR7 DR7) (dr0, dr1, dr2, dr3 uint64, newDR7 DR7, row callbackRow) {
	newDR7 = currentDR7
	addr := [4]*uint64{&dr0, &dr1, &dr2, &dr3}
	for i := range c.bps {
		idx := SlotIndex(i)
		s := c.bps[i].slot
		*addr[i] = s.Address
		newDR7 = EncodeDR7(newDR7, idx, s.Enabled, s.Condition, s.Length)
		row[i] = c.bps[i].callback
	}
	return dr0, dr1, dr2, dr3, newDR7, row
}
