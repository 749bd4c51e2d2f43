//go:build windows

package hwbp

import "testing"

func TestDR6HitAndClear(t *testing.T) {
	var d DR6
	for _, idx := range []SlotIndex{SlotFirst, SlotSecond, SlotThird, SlotFourth} {
		d = DR6(uint64(d) | 1<<uint(idx))
	}

	for _, idx := range []SlotIndex{SlotFirst, SlotSecond, SlotThird, SlotFourth} {
		if !HitDR6(d, idx) {
			t.Fatalf("expected slot %v hit before clearing", idx)
		}
	}

	cleared := ClearHitDR6(d, SlotThird)

	for _, idx := range []SlotIndex{SlotFirst, SlotSecond, SlotFourth} {
		if !HitDR6(cleared, idx) {
			t.Errorf("ClearHitDR6 cleared slot %v, wanted only SlotThird cleared", idx)
		}
	}
	if HitDR6(cleared, SlotThird) {
		t.Error("ClearHitDR6 did not clear SlotThird")
	}
}

func TestDR6PassthroughBitsUntouched(t *testing.T) {
	const singleStepBit = uint64(1) << 14
	d := DR6(singleStepBit | 0b1111)

	cleared := ClearHitDR6(d, SlotFirst)
	if uint64(cleared)&singleStepBit == 0 {
		t.Error("ClearHitDR6 touched a non-slot bit")
	}
}
