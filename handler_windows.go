//go:build windows

package hwbp

import (
	"sync"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	exceptionSingleStep        = 0x80000004
	exceptionContinueExecute   = int32(-1)
	exceptionContinueSearch    = int32(0)
	resumeFlag          uint32 = 1 << 16 // EFLAGS bit 16
	vectoredHandlerFirst uint32 = 1
)

// ExceptionRecord mirrors Win32's EXCEPTION_RECORD field-for-field; this
// library reads only ExceptionCode. Exported so a caller maintaining its own vectored
// handler can build one from the raw pointer it receives from Windows and
// pass it to DispatchException.
type ExceptionRecord struct {
	ExceptionCode        uint32
	ExceptionFlags       uint32
	ExceptionRecord      uintptr
	ExceptionAddress     uintptr
	NumberParameters     uint32
	ExceptionInformation [15]uintptr
}

// ExceptionPointers mirrors Win32's EXCEPTION_POINTERS, the single
// argument a vectored exception handler receives.
type ExceptionPointers struct {
	ExceptionRecord *ExceptionRecord
	ContextRecord   *CPUContext
}

var (
	kernel32                           = windows.NewLazySystemDLL("kernel32.dll")
	procAddVectoredExceptionHandler    = kernel32.NewProc("AddVectoredExceptionHandler")
	procRemoveVectoredExceptionHandler = kernel32.NewProc("RemoveVectoredExceptionHandler")

	handlerMu     sync.Mutex
	handlerHandle uintptr
	handlerCB     = syscall.NewCallback(exceptionHandlerTrampoline)
)

// Init installs the vectored exception handler. It's idempotent: a second
// call while already installed is a no-op.
func Init() {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	if handlerHandle != 0 {
		return
	}

	h, _, _ := procAddVectoredExceptionHandler.Call(uintptr(vectoredHandlerFirst), handlerCB)
	handlerHandle = h
}

// Free removes the vectored exception handler and drops every callback
// from the process-wide registry. It's idempotent: a second call after the
// handler is already removed is a no-op. It does not clear any breakpoints
// already loaded into a thread's CPU context — use FreeAndClear for that.
func Free() {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	if handlerHandle == 0 {
		return
	}

	procRemoveVectoredExceptionHandler.Call(handlerHandle)
	handlerHandle = 0
	callbacks.clear()
}

// exceptionHandlerTrampoline is the raw stdcall entry point registered
// with AddVectoredExceptionHandler. It passes the EXCEPTION_POINTERS value
// straight to DispatchException, which does the unwrapping.
func exceptionHandlerTrampoline(info *ExceptionPointers) uintptr {
	return uintptr(DispatchException(info))
}

// DispatchException runs the #DB dispatch logic against a raw
// EXCEPTION_POINTERS value. Call this directly if you maintain your own
// vectored handler instead of calling Init.
//
// Returns EXCEPTION_CONTINUE_EXECUTION for a serviced or unrecognized
// single-step trap it chose to resume, or EXCEPTION_CONTINUE_SEARCH for
// any other exception code or a malformed pointer. The dispatcher never
// raises.
func DispatchException(info *ExceptionPointers) int32 {
	if info == nil || info.ExceptionRecord == nil || info.ContextRecord == nil {
		return exceptionContinueSearch
	}

	if info.ExceptionRecord.ExceptionCode != exceptionSingleStep {
		return exceptionContinueSearch
	}

	cpu := info.ContextRecord
	tid := windows.GetCurrentThreadId()

	dr6 := DR6(cpu.Dr6)
	dr7 := DR7(cpu.Dr7)

	newDR6, _ := dispatch(tid, dr6, dr7, cpu)

	cpu.Dr6 = uint64(newDR6)
	cpu.EFlags |= resumeFlag

	return exceptionContinueExecute
}
