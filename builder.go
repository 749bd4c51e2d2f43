//go:build windows

package hwbp

// Builder constructs a validated Slot+Callback and installs it into the
// Context it was produced by. A Builder is only ever obtained from
// Context.Unused() — it's bound to a specific index from the moment it's
// created.
type Builder struct {
	context   *Context
	index     SlotIndex
	enabled   bool
	address   *uint64
	condition *Condition
	length    *Length
	callback  Callback
}

func newBuilder(c *Context, idx SlotIndex) *Builder {
	return &Builder{context: c, index: idx}
}

// BuildAndSet validates the accumulated fields, builds a Slot, installs it
// (with its callback) into the parent Context at the bound index, and
// returns the resulting Breakpoint handle.
//
// Required fields: Address, Condition, Callback. Length is additionally
// required unless Condition == ConditionExecute, in which case Length is
// forced to Length1 regardless of any value previously set — execute
// breakpoints are always one byte.
func (b *Builder) BuildAndSet() (Breakpoint, error) {
	if b.address == nil {
		return Breakpoint{}, ErrAddressNotSet
	}
	if b.condition == nil {
		return Breakpoint{}, ErrConditionNotSet
	}
	if b.callback == nil {
		return Breakpoint{}, ErrCallbackNotSet
	}

	length := Length1
	if *b.condition != ConditionExecute {
		if b.length == nil {
			return Breakpoint{}, ErrLengthNotSet
		}
		length = *b.length
	}

	slot := Slot{
		Enabled:   b.enabled,
		Address:   *b.address,
		Condition: *b.condition,
		Length:    length,
	}

	return b.context.buildAndSet(b.index, slot, b.callback), nil
}

// --- ergonomic construction helpers ---

// WatchMemory sets address, condition, length, and callback in one call.
func (b *Builder) WatchMemory(addr uintptr, condition Condition, length Length, callback Callback) *Builder {
	a := uint64(addr)
	b.address = &a
	b.condition = &condition
	b.length = &length
	b.callback = callback
	return b
}

// WatchMemoryWrite is WatchMemory preset to ConditionWrite.
func (b *Builder) WatchMemoryWrite(addr uintptr, length Length, callback Callback) *Builder {
	return b.WatchMemory(addr, ConditionWrite, length, callback)
}

// WatchMemoryReadWrite is WatchMemory preset to ConditionReadWrite.
func (b *Builder) WatchMemoryReadWrite(addr uintptr, length Length, callback Callback) *Builder {
	return b.WatchMemory(addr, ConditionReadWrite, length, callback)
}

// WatchMemoryExecute is WatchMemory preset to ConditionExecute/Length1.
func (b *Builder) WatchMemoryExecute(addr uintptr, callback Callback) *Builder {
	return b.WatchMemory(addr, ConditionExecute, Length1, callback)
}

// WatchVariable watches variable's address for condition, sizing the
// breakpoint off of sizeBytes (typically unsafe.Sizeof(*variable)). It
// returns ok=false, leaving the Builder untouched, if sizeBytes isn't one
// of {1,2,4,8} — this is not an error, just an unrepresentable request.
func (b *Builder) WatchVariable(addr uintptr, sizeBytes int, condition Condition, callback Callback) (*Builder, bool) {
	length, ok := lengthFromBytes(sizeBytes)
	if !ok {
		return b, false
	}
	return b.WatchMemory(addr, condition, length, callback), true
}

// WatchVariableWrite is WatchVariable preset to ConditionWrite.
func (b *Builder) WatchVariableWrite(addr uintptr, sizeBytes int, callback Callback) (*Builder, bool) {
	return b.WatchVariable(addr, sizeBytes, ConditionWrite, callback)
}

// WatchVariableReadWrite is WatchVariable preset to ConditionReadWrite.
func (b *Builder) WatchVariableReadWrite(addr uintptr, sizeBytes int, callback Callback) (*Builder, bool) {
	return b.WatchVariable(addr, sizeBytes, ConditionReadWrite, callback)
}

// --- mutator (Set*) and fluent (With*) field setters ---

// SetEnabled sets whether the breakpoint starts out armed.
func (b *Builder) SetEnabled(enabled bool) { b.enabled = enabled }

// SetAddress sets the linear address to watch.
func (b *Builder) SetAddress(addr uintptr) { a := uint64(addr); b.address = &a }

// SetCondition sets the triggering access condition.
func (b *Builder) SetCondition(condition Condition) { b.condition = &condition }

// SetLength sets the watched region's byte width.
func (b *Builder) SetLength(length Length) { b.length = &length }

// SetCallback sets the callback invoked on trap.
func (b *Builder) SetCallback(callback Callback) { b.callback = callback }

// WithEnabled is the fluent form of SetEnabled.
func (b *Builder) WithEnabled(enabled bool) *Builder {
	b.SetEnabled(enabled)
	return b
}

// WithAddress is the fluent form of SetAddress.
func (b *Builder) WithAddress(addr uintptr) *Builder {
	b.SetAddress(addr)
	return b
}

// WithCondition is the fluent form of SetCondition.
func (b *Builder) WithCondition(condition Condition) *Builder {
	b.SetCondition(condition)
	return b
}

// WithLength is the fluent form of SetLength.
func (b *Builder) WithLength(length Length) *Builder {
	b.SetLength(length)
	return b
}

// WithCallback is the fluent form of SetCallback.
func (b *Builder) WithCallback(callback Callback) *Builder {
	b.SetCallback(callback)
	return b
}
