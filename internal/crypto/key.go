package crypto

import "github.com/udisondev/nosgo/internal/constants"

// Mode selects one of the four world channel transforms.
// Derive is the only place a Mode is built from wire data, and it masks to two bits.
type Mode uint8

const (
	ModeSubtract    Mode = iota // b - offset - 0x40
	ModeAdd                     // b + offset + 0x40
	ModeSubtractXOR             // (b - offset - 0x40) ^ 0xC3
	ModeAddXOR                  // (b + offset + 0x40) ^ 0xC3
)

func (m Mode) String() string {
	switch m {
	case ModeSubtract:
		return "subtract"
	case ModeAdd:
		return "add"
	case ModeSubtractXOR:
		return "subtract-xor"
	case ModeAddXOR:
		return "add-xor"
	default:
		return "invalid"
	}
}

// Schedule is the (mode, offset) pair derived from a 16-bit session key.
type Schedule struct {
	Mode   Mode
	Offset uint8
}

// Derive splits a session key into its channel schedule.
// Offset is the low byte, Mode is bits 6-7. The schedule is recomputed on every
// call; nothing here caches per-session state.
func Derive(key uint16) Schedule {
	return Schedule{
		Mode:   Mode((key >> 6) & 0b11),
		Offset: uint8(key & 0xFF),
	}
}

// shift returns offset + 0x40 with 8-bit wraparound.
func (s Schedule) shift() byte {
	return s.Offset + constants.WorldChannelShift
}
