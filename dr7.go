//go:build windows

package hwbp

// DR7 is the debug control register, decoded/encoded per slot. See
// https://en.wikipedia.org/wiki/X86_debug_register#DR7_-_Debug_control
//
// Layout (bit 0 is the least significant bit):
//
//	0,2,4,6    local-enable for slots 0..3
//	1,3,5,7    global-enable for slots 0..3 (not used by this library)
//	8          local exact breakpoint enable (not used)
//	9          global exact breakpoint enable (not used)
//	10         reserved, always 1
//	11         RTM
//	12         reserved, always 0
//	13         debug-register access detect (GD)
//	14         reserved, always 0
//	16-17      condition for slot 0
//	18-19      length for slot 0
//	20-21      condition for slot 1
//	22-23      length for slot 1
//	24-25      condition for slot 2
//	26-27      length for slot 2
//	28-29      condition for slot 3
//	30-31      length for slot 3
type DR7 uint64

const dr7ReservedBit10 = uint64(1) << 10

// conditionBits/lengthBits encode and decode the 2-bit fields above. Length
// is NOT encoded as (bytes-1) or similar: the x86 encoding is
// non-monotonic — 1=>00, 2=>01, 8=>10, 4=>11.
func conditionBits(c Condition) uint64 { return uint64(c) & 0b11 }

func conditionFromBits(bits uint64) Condition { return Condition(bits & 0b11) }

func lengthBits(l Length) uint64 {
	switch l {
	case Length1:
		return 0b00
	case Length2:
		return 0b01
	case Length8:
		return 0b10
	case Length4:
		return 0b11
	default:
		return 0b00
	}
}

func lengthFromBits(bits uint64) Length {
	switch bits & 0b11 {
	case 0b00:
		return Length1
	case 0b01:
		return Length2
	case 0b10:
		return Length8
	case 0b11:
		return Length4
	default:
		return Length1
	}
}

// localEnableBit returns the bit position of the local-enable flag for idx.
func localEnableBit(idx SlotIndex) uint {
	return uint(idx) * 2
}

// groupShift returns the bit offset of the 4-bit (condition, length) group
// for idx: 16 + 4*idx.
func groupShift(idx SlotIndex) uint {
	return 16 + uint(idx)*4
}

// DecodeDR7 extracts the enabled flag, condition, and length for slot idx
// out of a raw DR7 value. Decode followed by Encode is the identity for the
// four slot groups and the four local-enable bits.
func DecodeDR7(d DR7, idx SlotIndex) (enabled bool, cond Condition, length Length) {
	raw := uint64(d)
	enabled = raw&(1<<localEnableBit(idx)) != 0
	group := raw >> groupShift(idx)
	cond = conditionFromBits(group)
	length = lengthFromBits(group >> 2)
	return enabled, cond, length
}

// EncodeDR7 overlays slot idx's enabled/condition/length into d, forces bit
// 10 to 1, and leaves every other bit of d untouched: encoding changes only
// the local-enable bit and the 4-bit group for idx, plus bit 10.
func EncodeDR7(d DR7, idx SlotIndex, enabled bool, cond Condition, length Length) DR7 {
	raw := uint64(d)

	enableBit := uint64(1) << localEnableBit(idx)
	raw &^= enableBit
	if enabled {
		raw |= enableBit
	}

	shift := groupShift(idx)
	groupMask := uint64(0b1111) << shift
	raw &^= groupMask
	raw |= (conditionBits(cond) | (lengthBits(length) << 2)) << shift

	raw |= dr7ReservedBit10

	return DR7(raw)
}
