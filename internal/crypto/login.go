package crypto

import (
	"errors"

	"github.com/udisondev/nosgo/internal/constants"
)

// ErrInvalidText is returned when decrypted login bytes are not valid UTF-8.
var ErrInvalidText = errors.New("decrypted text is not valid utf-8")

// EncryptLogin encrypts a server→client login packet: every byte is shifted by 0x0F.
// The transform is byte-wise, so the output always has the input's length.
func EncryptLogin(plain []byte) []byte {
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = b + constants.LoginShift
	}
	return out
}

// DecryptLogin decrypts a client→server login packet: (b - 0x0F) ^ 0xC3.
// The result is raw bytes; UTF-8 validation belongs to the caller (see protocol.LoginDecrypt).
func DecryptLogin(cipher []byte) []byte {
	out := make([]byte, len(cipher))
	for i, b := range cipher {
		out[i] = (b - constants.LoginShift) ^ constants.LoginXOR
	}
	return out
}

// EncryptLoginClient is the client-side counterpart of DecryptLogin.
func EncryptLoginClient(plain []byte) []byte {
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = (b ^ constants.LoginXOR) + constants.LoginShift
	}
	return out
}

// DecryptLoginServer is the client-side counterpart of EncryptLogin.
func DecryptLoginServer(cipher []byte) []byte {
	out := make([]byte, len(cipher))
	for i, b := range cipher {
		out[i] = b - constants.LoginShift
	}
	return out
}
