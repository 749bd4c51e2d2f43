//go:build windows

package hwbp

import "log"

// Logger is a package-level diagnostics sink. It defaults to log.Printf and
// can be replaced by an embedding application that wants its own
// destination instead. The package's own functions return their failures
// to the caller as errors and do not write to Logger.
var Logger = func(format string, args ...any) {
	log.Printf(format, args...)
}

// FreeAndClear disables all four hardware-breakpoint slots on every thread
// of the current process, writes that back to each thread, and then calls
// Free. It returns the first *ContextError encountered; like
// ApplyForAllThreads, it short-circuits on error and earlier threads
// remain updated.
func FreeAndClear() error {
	err := EnumerateThreads(func(tid uint32) error {
		ctx, err := ForThread(tid)
		if err != nil {
			return err
		}
		ctx.DisableAll()
		return ctx.ApplyForThread(tid)
	})
	if err != nil {
		return err
	}

	Free()
	return nil
}
