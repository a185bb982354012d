package crypto

import "github.com/udisondev/nosgo/internal/constants"

// DecryptSession decodes the packed session blob the client sends first on the
// world channel. Each input byte yields two characters: high nibble first.
func DecryptSession(blob []byte) []byte {
	out := make([]byte, 0, len(blob)*2)
	for _, b := range blob {
		first := b - constants.SessionShift
		second := first & 0xF0
		out = append(out, sessionChar((second>>4)&0x0F), sessionChar(first-second))
	}
	return out
}

// sessionChar maps a nibble to its session character.
// Keys 4..13 are the digits '0'..'9'; 14 and 15 produce bytes the client never sends.
func sessionChar(k byte) byte {
	switch k {
	case 0, 1:
		return ' '
	case 2:
		return '-'
	case 3:
		return '.'
	default:
		return 0x2C + k
	}
}
