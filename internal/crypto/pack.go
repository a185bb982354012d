package crypto

import "github.com/udisondev/nosgo/internal/constants"

// permutations maps a compact-run nibble to its character.
// 0 and 15 are sentinels and decode to NUL.
var permutations = [16]byte{
	0x00, ' ', '-', '.',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	0xFF, 0x00,
}

// Unpack decompresses a client→server world payload.
//
// The payload is a sequence of runs. A header byte carries the run length in its
// low 7 bits. With the high bit clear the run is linear: length bytes, each
// inverted. With it set the run is compact: length characters packed two per
// byte through permutations, high nibble first; a zero low nibble ends that
// byte early.
//
// Truncated input is decoded best-effort: a run that declares more data than
// is left stops at the end of the buffer and Unpack returns what it has.
func Unpack(payload []byte) []byte {
	out := make([]byte, 0, len(payload)*2)

	i := 0
	for i < len(payload) {
		h := payload[i]
		i++
		n := int(h & constants.RunLengthMask)

		if h&constants.RunCompactFlag == 0 {
			end := min(i+n, len(payload))
			for _, b := range payload[i:end] {
				out = append(out, b^0xFF)
			}
			i = end
			continue
		}

		end := min(i+(n+1)/2, len(payload))
		emitted := 0
		for ; i < end && emitted < n; i++ {
			b := payload[i]
			out = append(out, permutations[b>>4])
			emitted++

			low := b & 0x0F
			if low == 0 || emitted == n {
				continue
			}
			out = append(out, permutations[low])
			emitted++
		}
	}

	return out
}

// packIndex is the reverse of permutations for the characters Pack compacts.
func packIndex(c byte) (byte, bool) {
	switch {
	case c == ' ':
		return 1, true
	case c == '-':
		return 2, true
	case c == '.':
		return 3, true
	case c >= '0' && c <= '9':
		return c - '0' + 4, true
	default:
		return 0, false
	}
}

// Pack compresses text the way the client does before channel encryption.
// Runs of at least MinCompactRun packable characters are stored compactly,
// everything else as linear runs. Unpack(Pack(x)) == x for any x.
func Pack(text []byte) []byte {
	out := make([]byte, 0, len(text)+len(text)/constants.MaxRunLength+2)

	i := 0
	for i < len(text) {
		n := packableRun(text[i:])
		if n >= constants.MinCompactRun {
			out = appendCompact(out, text[i:i+n])
			i += n
			continue
		}

		// extend the linear run until the next compact-worthy stretch
		j := i
		for j < len(text) && j-i < constants.MaxRunLength {
			if packableRun(text[j:]) >= constants.MinCompactRun {
				break
			}
			j++
		}
		out = appendLinear(out, text[i:j])
		i = j
	}

	return out
}

// packableRun counts leading packable characters, capped at MaxRunLength.
func packableRun(text []byte) int {
	n := 0
	for n < len(text) && n < constants.MaxRunLength {
		if _, ok := packIndex(text[n]); !ok {
			break
		}
		n++
	}
	return n
}

func appendLinear(out, run []byte) []byte {
	out = append(out, byte(len(run)))
	for _, b := range run {
		out = append(out, b^0xFF)
	}
	return out
}

func appendCompact(out, run []byte) []byte {
	out = append(out, constants.RunCompactFlag|byte(len(run)))
	for i := 0; i < len(run); i += 2 {
		hi, _ := packIndex(run[i])
		var lo byte
		if i+1 < len(run) {
			lo, _ = packIndex(run[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out
}
