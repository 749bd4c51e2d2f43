//go:build windows

package hwbp

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// m128a mirrors WinNT.h's M128A: a 128-bit SSE register slot.
type m128a struct {
	Low  uint64
	High int64
}

// xmmSaveArea32 mirrors WinNT.h's XMM_SAVE_AREA32, the legacy x87/SSE save
// area embedded in CONTEXT. This library never reads or writes floating
// point state; the fields exist only so CPUContext's size and the offset
// of everything after it match the real Win32 CONTEXT struct exactly.
type xmmSaveArea32 struct {
	ControlWord    uint16
	StatusWord     uint16
	TagWord        uint8
	Reserved1      uint8
	ErrorOpcode    uint16
	ErrorOffset    uint32
	ErrorSelector  uint16
	Reserved2      uint16
	DataOffset     uint32
	DataSelector   uint16
	Reserved3      uint16
	MxCsr          uint32
	MxCsrMask      uint32
	FloatRegisters [8]m128a
	XmmRegisters   [16]m128a
	Reserved4      [96]byte
}

// CPUContext is the AMD64 CPU context a Callback sees: general-purpose
// registers, flags, and the instruction pointer, at the trap instruction.
// It mirrors WinNT.h's AMD64 _CONTEXT struct field-for-field (golang.org/x
// /sys/windows has no equivalent type — the runtime itself reaches
// GetThreadContext/SetThreadContext via its own copy of this layout rather
// than through x/sys). Callbacks mutate its fields directly rather than
// going through a layer of Go getter/setter wrappers.
type CPUContext struct {
	P1Home, P2Home, P3Home, P4Home, P5Home, P6Home uint64

	ContextFlags uint32
	MxCsr        uint32

	SegCs, SegDs, SegEs, SegFs, SegGs, SegSs uint16
	EFlags                                   uint32

	Dr0, Dr1, Dr2, Dr3, Dr6, Dr7 uint64

	Rax, Rcx, Rdx, Rbx, Rsp, Rbp, Rsi, Rdi uint64
	R8, R9, R10, R11, R12, R13, R14, R15  uint64
	Rip                                   uint64

	FltSave xmmSaveArea32

	VectorRegister [26]m128a
	VectorControl  uint64

	DebugControl         uint64
	LastBranchToRip      uint64
	LastBranchFromRip    uint64
	LastExceptionToRip   uint64
	LastExceptionFromRip uint64
}

// Thread access rights needed to read and write debug registers. Defined
// locally (rather than assumed present on windows.THREAD_*) since these
// values are a fixed part of the WinNT ABI.
const (
	threadGetContext = 0x0008
	threadSetContext = 0x0010
)

// CONTEXT_AMD64 and CONTEXT_DEBUG_REGISTERS, per WinNT.h. Consuming the
// thread context with only this flag set means just Dr0-Dr3, Dr6, Dr7 are
// read/written; every other CONTEXT field round-trips untouched.
const (
	contextAMD64          = 0x00100000
	contextDebugRegisters = contextAMD64 | 0x00000010
)

var (
	procGetThreadContext = kernel32.NewProc("GetThreadContext")
	procSetThreadContext = kernel32.NewProc("SetThreadContext")
)

// getThreadContext and setThreadContext reach GetThreadContext/
// SetThreadContext the same way handler_windows.go reaches
// AddVectoredExceptionHandler: neither is wrapped by x/sys/windows, so
// this binds straight to kernel32.dll instead of aliasing a nonexistent
// x/sys type. Both Win32 calls return a nonzero BOOL on success.
func getThreadContext(handle windows.Handle, ctx *CPUContext) error {
	r, _, err := procGetThreadContext.Call(uintptr(handle), uintptr(unsafe.Pointer(ctx)))
	if r == 0 {
		return err
	}
	return nil
}

func setThreadContext(handle windows.Handle, ctx *CPUContext) error {
	r, _, err := procSetThreadContext.Call(uintptr(handle), uintptr(unsafe.Pointer(ctx)))
	if r == 0 {
		return err
	}
	return nil
}

// alignedContext holds a CPUContext at a 16-byte aligned address. Some
// Windows releases require AMD64 CONTEXT buffers to be 16-byte aligned
// (see https://github.com/microsoft/win32metadata/issues/1044); Go's
// allocator only guarantees 8-byte alignment for an arbitrary struct, so
// this over-allocates and hands back a pointer into the padding.
type alignedContext struct {
	raw [unsafe.Sizeof(CPUContext{}) + 16]byte
}

func (a *alignedContext) context() *CPUContext {
	addr := uintptr(unsafe.Pointer(&a.raw[0]))
	aligned := (addr + 15) &^ 15
	return (*CPUContext)(unsafe.Pointer(aligned))
}

// Current returns a Context read from the calling thread.
func Current() (Context, error) {
	tid := windows.GetCurrentThreadId()
	return contextForHandle(windows.CurrentThread(), tid)
}

// ForThread opens thread_id with GET_CONTEXT|SET_CONTEXT rights, reads its
// context, and closes the handle.
func ForThread(tid uint32) (Context, error) {
	handle, err := windows.OpenThread(threadGetContext|threadSetContext, false, tid)
	if err != nil {
		return Context{}, newContextError("open thread", tid, err)
	}
	defer windows.CloseHandle(handle)

	return contextForHandle(handle, tid)
}

func contextForHandle(handle windows.Handle, tid uint32) (Context, error) {
	var buf alignedContext
	win := buf.context()
	win.ContextFlags = contextDebugRegisters

	if err := getThreadContext(handle, win); err != nil {
		return Context{}, newContextError("get context", tid, err)
	}

	c := newContextFromRaw(win.Dr0, win.Dr1, win.Dr2, win.Dr3, DR7(win.Dr7), tid)
	return c, nil
}

// ApplyForCurrentThread writes c back to the calling thread's debug
// registers and installs its callbacks in the registry.
func (c *Context) ApplyForCurrentThread() error {
	tid := windows.GetCurrentThreadId()
	return c.applyForHandle(windows.CurrentThread(), tid)
}

// ApplyForThread opens thread_id with GET_CONTEXT|SET_CONTEXT rights,
// applies c, and closes the handle.
func (c *Context) ApplyForThread(tid uint32) error {
	handle, err := windows.OpenThread(threadGetContext|threadSetContext, false, tid)
	if err != nil {
		return newContextError("open thread", tid, err)
	}
	defer windows.CloseHandle(handle)

	return c.applyForHandle(handle, tid)
}

// applyForHandle implements the four-step apply protocol: read the
// thread's current debug-register context, overlay this Context's four
// slots (preserving any non-slot DR7 bits), install the callback registry
// entry, then write the context back — in that order, so a trap observed
// after the write already sees the matching callback.
func (c *Context) applyForHandle(handle windows.Handle, tid uint32) error {
	var buf alignedContext
	win := buf.context()
	win.ContextFlags = contextDebugRegisters

	if err := getThreadContext(handle, win); err != nil {
		return newContextError("get context", tid, err)
	}

	dr0, dr1, dr2, dr3, dr7, row := c.overlay(DR7(win.Dr7))
	win.Dr0, win.Dr1, win.Dr2, win.Dr3, win.Dr7 = dr0, dr1, dr2, dr3, uint64(dr7)

	callbacks.install(tid, row)

	if err := setThreadContext(handle, win); err != nil {
		return newContextError("set context", tid, err)
	}

	return nil
}

// ApplyForAllThreads applies c to every thread of the current process.
// Failure on any thread short-circuits the enumeration; the order of
// application is unspecified, so partial application from an earlier
// error is observable.
func (c *Context) ApplyForAllThreads() error {
	return EnumerateThreads(func(tid uint32) error {
		return c.ApplyForThread(tid)
	})
}
