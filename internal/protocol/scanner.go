package protocol

import (
	"bufio"
	"io"

	"github.com/udisondev/nosgo/internal/constants"
	"github.com/udisondev/nosgo/internal/crypto"
)

// NewScanner wraps r in a bufio.Scanner using split.
// Tokens are only valid until the next Scan.
func NewScanner(r io.Reader, split bufio.SplitFunc) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, constants.DefaultReadBufSize), constants.MaxFrameSize)
	sc.Split(split)
	return sc
}

// delimited adapts a framer to bufio.SplitFunc.
// An unterminated tail at EOF is dropped: the peer closed mid-packet.
func delimited(next func([]byte) ([]byte, []byte, bool)) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		packet, rest, ok := next(data)
		if !ok {
			return 0, nil, nil
		}
		return len(data) - len(rest), packet, nil
	}
}

// ScanLogin splits a client→server login stream into encrypted packets.
var ScanLogin = delimited(LoginNext)

// ScanLoginServer splits a server→client login stream into encrypted packets.
var ScanLoginServer = delimited(LoginServerNext)

// ScanWorld splits a client→server world stream into encrypted packets for key.
func ScanWorld(key uint16) bufio.SplitFunc {
	return delimited(func(buf []byte) ([]byte, []byte, bool) {
		return WorldNext(buf, key)
	})
}

// ScanWorldServer splits a server→client world stream and yields decoded text.
func ScanWorldServer(data []byte, atEOF bool) (int, []byte, error) {
	plain, rest, ok := crypto.DecodeWorld(data)
	if !ok {
		return 0, nil, nil
	}
	if plain == nil {
		// bufio.Scanner skips nil tokens, an empty frame is still a packet
		plain = []byte{}
	}
	return len(data) - len(rest), plain, nil
}
