package protocol

import (
	"bytes"

	"github.com/udisondev/nosgo/internal/constants"
	"github.com/udisondev/nosgo/internal/crypto"
)

// Split cuts buf at the first delim.
// packet is everything before the delimiter, rest everything after it; the
// delimiter itself is dropped. ok is false when delim is absent: the caller keeps
// the whole buffer and waits for more data. Both results alias buf.
func Split(buf []byte, delim byte) (packet, rest []byte, ok bool) {
	i := bytes.IndexByte(buf, delim)
	if i < 0 {
		return nil, buf, false
	}
	return buf[:i], buf[i+1:], true
}

// LoginNext returns the next client→server login packet from buf.
func LoginNext(buf []byte) (packet, rest []byte, ok bool) {
	return Split(buf, constants.LoginDelimiter)
}

// LoginServerNext returns the next server→client login packet from buf.
func LoginServerNext(buf []byte) (packet, rest []byte, ok bool) {
	return Split(buf, constants.LoginServerDelimiter)
}

// SessionNext returns the packed session blob that opens a world connection.
// Everything in rest is already channel-encrypted with the session key.
func SessionNext(buf []byte) (blob, rest []byte, ok bool) {
	return Split(buf, constants.SessionTerminator)
}

// WorldNext returns the next client→server world packet from buf.
// The delimiter depends on the session key.
func WorldNext(buf []byte, key uint16) (packet, rest []byte, ok bool) {
	return Split(buf, crypto.WorldDelimiter(key))
}
