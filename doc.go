//go:build windows

// Package hwbp installs, manages, and reacts to x86/x86-64 hardware
// breakpoints on Windows threads.
//
// Hardware breakpoints are a CPU feature: four debug-address registers
// (DR0-DR3) each hold a linear address whose access (execute / write /
// read-write) triggers a #DB exception, governed by DR6 (status) and DR7
// (control). Because the debug registers live in per-thread CPU context,
// this package plays three roles: it reads and writes the debug-register
// portion of a thread's context through the OS, it installs a process-wide
// vectored exception handler that turns #DB traps into callback
// invocations, and it presents a validated builder so callers cannot
// construct illegal DR7 encodings.
//
// Call Init once at process startup to install the exception handler, build
// breakpoints through a Context's Unused builder, and apply them to one or
// more threads. Call Free (or FreeAndClear) to tear down.
package hwbp
