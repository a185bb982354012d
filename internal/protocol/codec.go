package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/udisondev/nosgo/internal/crypto"
)

// ErrNoSession is returned when a decoded session packet carries no session id.
var ErrNoSession = errors.New("session packet has no session id")

// LoginEncrypt encrypts a server→client login packet.
func LoginEncrypt(s string) []byte {
	return crypto.EncryptLogin([]byte(s))
}

// LoginDecrypt decrypts a client→server login packet and validates it as text.
// Invalid UTF-8 yields an error wrapping crypto.ErrInvalidText; nothing is substituted.
func LoginDecrypt(cipher []byte) (string, error) {
	plain := crypto.DecryptLogin(cipher)
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("login decrypt (%d bytes): %w", len(plain), crypto.ErrInvalidText)
	}
	return string(plain), nil
}

// WorldEncrypt encodes a server→client world packet.
func WorldEncrypt(s string) []byte {
	return crypto.EncodeWorld([]byte(s))
}

// WorldSessionDecrypt decodes the session packet that opens a world connection.
func WorldSessionDecrypt(blob []byte) []byte {
	return crypto.DecryptSession(blob)
}

// WorldChannelDecrypt decrypts a client→server world packet with the session key.
func WorldChannelDecrypt(cipher []byte, key uint16) []byte {
	return crypto.DecryptChannel(cipher, key)
}

// WorldChannelUnpack decompresses a decrypted client→server world payload.
func WorldChannelUnpack(payload []byte) []byte {
	return crypto.Unpack(payload)
}

// DecodeWorldInbound turns one framed client→server world packet into text.
func DecodeWorldInbound(frame []byte, key uint16) []byte {
	return crypto.Unpack(crypto.DecryptChannel(frame, key))
}

// EncodeWorldInbound builds what the client sends for text, delimiter included.
func EncodeWorldInbound(text []byte, key uint16) []byte {
	out := crypto.EncryptChannel(crypto.Pack(text), key)
	return append(out, crypto.WorldDelimiter(key))
}

// ParseSession extracts the session id from a decoded session packet.
// The id is the last run of digits; it is truncated to the 16-bit key the
// channel cipher uses.
func ParseSession(decoded []byte) (uint16, error) {
	end := len(decoded)
	for end > 0 && !isDigit(decoded[end-1]) {
		end--
	}
	start := end
	for start > 0 && isDigit(decoded[start-1]) {
		start--
	}
	if start == end {
		return 0, ErrNoSession
	}

	id, err := strconv.ParseUint(string(decoded[start:end]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing session id %q: %w", decoded[start:end], err)
	}
	return uint16(id), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
