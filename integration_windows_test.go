//go:build windows

package hwbp_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/go-windows/hwbp"
	"golang.org/x/sys/windows"
)

// TestApplyAcrossThreads arms a breakpoint built from one thread's Context
// and applies it to a second, separately running goroutine's OS thread,
// confirming the trap fires there rather than on the builder's own thread.
func TestApplyAcrossThreads(t *testing.T) {
	hwbp.Init()
	defer hwbp.Free()

	var target uint32 = 1

	var wg sync.WaitGroup
	ready := make(chan uint32, 1)
	armed := make(chan struct{})
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		ready <- windows.GetCurrentThreadId()
		<-armed
		atomic.StoreUint32(&target, 2)
		close(done)
	}()

	workerTid := <-ready

	ctx, err := hwbp.ForThread(workerTid)
	if err != nil {
		t.Fatalf("ForThread: %v", err)
	}

	hitOnTid := make(chan uint32, 1)
	b := ctx.Unused()
	if b == nil {
		t.Fatal("no free breakpoint slot")
	}
	_, err = b.WithEnabled(true).WatchMemoryWrite(uintptr(unsafe.Pointer(&target)), hwbp.Length4, func(*hwbp.CPUContext) {
		hitOnTid <- windows.GetCurrentThreadId()
	}).BuildAndSet()
	if err != nil {
		t.Fatalf("BuildAndSet: %v", err)
	}

	if err := ctx.ApplyForThread(workerTid); err != nil {
		t.Fatalf("ApplyForThread: %v", err)
	}

	close(armed)
	<-done
	wg.Wait()

	select {
	case tid := <-hitOnTid:
		if tid != workerTid {
			t.Errorf("expected the trap to fire on worker thread %d, got %d", workerTid, tid)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("breakpoint callback never fired for the worker thread's write")
	}
}

// TestInitAndFreeAreIdempotent checks that installing or removing the
// vectored exception handler twice in a row is a harmless no-op.
func TestInitAndFreeAreIdempotent(t *testing.T) {
	hwbp.Init()
	hwbp.Init()
	hwbp.Free()
	hwbp.Free()
}

// TestFreeAndClearDisarmsEveryThread arms a slot on the calling thread,
// runs FreeAndClear, and confirms that no slot is left enabled on the
// calling thread; the other threads of the process are not inspected.
func TestFreeAndClearDisarmsEveryThread(t *testing.T) {
	hwbp.Init()

	var x uint32
	ctx, err := hwbp.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	b := ctx.Unused()
	if b == nil {
		t.Fatal("no free breakpoint slot")
	}
	if _, err := b.WithEnabled(true).WatchMemoryWrite(uintptr(unsafe.Pointer(&x)), hwbp.Length4, func(*hwbp.CPUContext) {}).BuildAndSet(); err != nil {
		t.Fatalf("BuildAndSet: %v", err)
	}
	if err := ctx.ApplyForCurrentThread(); err != nil {
		t.Fatalf("ApplyForCurrentThread: %v", err)
	}

	if err := hwbp.FreeAndClear(); err != nil {
		t.Fatalf("FreeAndClear: %v", err)
	}

	after, err := hwbp.Current()
	if err != nil {
		t.Fatalf("Current after FreeAndClear: %v", err)
	}
	if after.First().IsEnabled() || after.Second().IsEnabled() || after.Third().IsEnabled() || after.Fourth().IsEnabled() {
		t.Error("expected all four slots disabled on the calling thread after FreeAndClear")
	}
}
