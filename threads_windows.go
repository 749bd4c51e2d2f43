//go:build windows

package hwbp

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// EnumerateThreads snapshots every thread belonging to the current process
// and calls f once per thread id. Enumeration is best-
// effort with respect to threads that exit mid-iteration; a thread created
// during iteration may or may not be visited. OS failures from the
// enumeration primitive itself (creating the snapshot, or a
// Thread32First/Thread32Next failure other than end-of-list) are reported
// as a *ContextError with Op "enumerate threads"; an error returned by f is
// propagated as-is, short-circuiting the remaining threads.
func EnumerateThreads(f func(tid uint32) error) error {
	pid := windows.GetCurrentProcessId()

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return newContextError("enumerate threads", 0, err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Thread32First(snapshot, &entry); err != nil {
		if err != windows.ERROR_NO_MORE_FILES {
			return newContextError("enumerate threads", 0, err)
		}
		// An empty snapshot: there's nothing to enumerate.
		return nil
	}

	for {
		if entry.OwnerProcessID == pid {
			if err := f(entry.ThreadID); err != nil {
				return err
			}
		}

		if err := windows.Thread32Next(snapshot, &entry); err != nil {
			if err != windows.ERROR_NO_MORE_FILES {
				return newContextError("enumerate threads", 0, err)
			}
			break
		}
	}

	return nil
}
