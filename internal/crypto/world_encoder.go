package crypto

import "github.com/udisondev/nosgo/internal/constants"

// EncodeWorld encodes a server→client world packet.
//
// Format: every 126 input bytes are preceded by a marker holding the number of
// literals that follow (min(126, remaining)); literals are bit-inverted; the frame
// ends with a 0xFF sentinel. Markers never exceed 0x7E so 0xFF is unambiguous
// for a reader that tracks the literal count.
func EncodeWorld(plain []byte) []byte {
	segments := (len(plain) + constants.WorldSegmentSize - 1) / constants.WorldSegmentSize
	out := make([]byte, 0, len(plain)+segments+1)

	for i, b := range plain {
		if i%constants.WorldSegmentSize == 0 {
			out = append(out, byte(min(constants.WorldSegmentSize, len(plain)-i)))
		}
		out = append(out, ^b)
	}

	return append(out, constants.WorldTerminator)
}

// DecodeWorld reads one encoded frame from the front of buf.
// It returns the plaintext and the bytes after the sentinel. ok is false when the
// frame is not complete yet; callers keep buf and wait for more data.
func DecodeWorld(buf []byte) (plain, rest []byte, ok bool) {
	i := 0
	for i < len(buf) {
		marker := buf[i]
		i++
		if marker == constants.WorldTerminator {
			return plain, buf[i:], true
		}

		n := int(marker)
		if i+n > len(buf) {
			return nil, buf, false
		}
		for _, b := range buf[i : i+n] {
			plain = append(plain, ^b)
		}
		i += n
	}
	return nil, buf, false
}
