//go:build windows

package hwbp

import "testing"

// TestDispatchServicesLowestHitSlot covers the multi-hit rule: the
// dispatcher clears only the bit it serviced, always the lowest-index
// simultaneous hit.
func TestDispatchServicesLowestHitSlot(t *testing.T) {
	const tid = 4242
	defer callbacks.clear()

	var invoked []SlotIndex
	row := callbackRow{
		func(*CPUContext) { invoked = append(invoked, SlotFirst) },
		func(*CPUContext) { invoked = append(invoked, SlotSecond) },
		func(*CPUContext) { invoked = append(invoked, SlotThird) },
		func(*CPUContext) { invoked = append(invoked, SlotFourth) },
	}
	callbacks.install(tid, row)

	var dr7 DR7
	dr7 = EncodeDR7(dr7, SlotSecond, true, ConditionWrite, Length4)
	dr7 = EncodeDR7(dr7, SlotFourth, true, ConditionWrite, Length4)

	dr6 := DR6(0)
	dr6 = DR6(uint64(dr6) | 1<<uint(SlotSecond) | 1<<uint(SlotFourth))

	newDR6, serviced := dispatch(tid, dr6, dr7, nil)

	if !serviced {
		t.Fatal("expected dispatch to service a hit")
	}
	if len(invoked) != 1 || invoked[0] != SlotSecond {
		t.Fatalf("expected only SlotSecond's callback invoked, got %v", invoked)
	}
	if HitDR6(newDR6, SlotSecond) {
		t.Error("dispatch did not clear the slot it serviced")
	}
	if !HitDR6(newDR6, SlotFourth) {
		t.Error("dispatch cleared a bit for a slot it did not service — next #DB would be lost")
	}
}

func TestDispatchIgnoresHitOnDisabledSlot(t *testing.T) {
	const tid = 4243
	defer callbacks.clear()

	invoked := false
	callbacks.install(tid, callbackRow{func(*CPUContext) { invoked = true }})

	dr7 := DR7(0) // slot 0 not enabled
	dr6 := DR6(1) // but DR6 reports a hit on slot 0 anyway

	_, serviced := dispatch(tid, dr6, dr7, nil)
	if serviced {
		t.Error("dispatch serviced a hit on a slot whose local-enable bit is clear")
	}
	if invoked {
		t.Error("dispatch invoked a callback for a disabled slot")
	}
}

func TestDispatchMissingCallbackStillClearsHit(t *testing.T) {
	const tid = 4244
	defer callbacks.clear()
	// No callback installed for tid at all.

	dr7 := EncodeDR7(DR7(0), SlotFirst, true, ConditionExecute, Length1)
	dr6 := DR6(1)

	newDR6, serviced := dispatch(tid, dr6, dr7, nil)
	if !serviced {
		t.Error("expected the hit to be serviced (bit cleared) even with no registered callback")
	}
	if HitDR6(newDR6, SlotFirst) {
		t.Error("hit bit should be cleared regardless of whether a callback was registered")
	}
}
