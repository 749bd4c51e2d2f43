//go:build windows

package hwbp

// Callback is invoked from the exception dispatcher when its slot's
// hardware breakpoint fires. It runs on the trapping thread, inside the
// vectored exception handler, so it must not allocate in a way that can
// deadlock and must not itself raise #DB on unrelated memory.
//
// A Callback is a plain Go function value; the type does not reject
// closures, and whatever a closure captures stays reachable from the
// callback registry until a later apply to the same thread replaces it or
// Free clears the registry. CPUContext grants read/write access to the trapped
// thread's general-purpose registers, flags, and instruction pointer at
// the trap instruction.
type Callback func(ctx *CPUContext)

// Breakpoint is a mutable, copyable handle bound to one hardware slot: its
// index, its current Slot value, and an optional callback. Owning a
// Breakpoint does not own CPU state — only a Context's Apply* methods write
// anything back to hardware.
type Breakpoint struct {
	index    SlotIndex
	slot     Slot
	callback Callback
}

// Index returns which of the four hardware slots this breakpoint is bound
// to.
func (b Breakpoint) Index() SlotIndex { return b.index }

// Slot returns the current slot value (address/condition/length/enabled).
func (b Breakpoint) Slot() Slot { return b.slot }

// Callback returns the registered callback, or nil if none is set.
func (b Breakpoint) Callback() Callback { return b.callback }

// IsEnabled reports whether the breakpoint is currently armed.
func (b Breakpoint) IsEnabled() bool { return b.slot.Enabled }

// Enable arms the breakpoint in the in-memory model. It has no effect on
// hardware until the owning Context is applied.
func (b *Breakpoint) Enable() { b.slot.Enabled = true }

// Disable disarms the breakpoint in the in-memory model, leaving its
// address/condition/length intact. It has no effect on hardware until the
// owning Context is applied.
func (b *Breakpoint) Disable() { b.slot.Enabled = false }
