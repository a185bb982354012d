package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptLogin(t *testing.T) {
	tests := []struct {
		name  string
		plain []byte
		want  []byte
	}{
		{"empty", []byte{}, []byte{}},
		{"ascii", []byte("NoS"), []byte{0x5D, 0x7E, 0x62}},
		{"wraparound", []byte{0xF1, 0xFF}, []byte{0x00, 0x0E}},
		{"newline becomes server delimiter", []byte{'\n'}, []byte{0x19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncryptLogin(tt.plain))
		})
	}
}

func TestDecryptLogin(t *testing.T) {
	// 0xD8 is the encrypted newline, the login framing delimiter
	assert.Equal(t, []byte{'\n'}, DecryptLogin([]byte{0xD8}))
	// (0x0E - 0x0F) ^ 0xC3 = 0xFF ^ 0xC3
	assert.Equal(t, []byte{0x3C}, DecryptLogin([]byte{0x0E}))
	assert.Empty(t, DecryptLogin(nil))
}

func TestLoginRoundTrip_ClientToServer(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	assert.Equal(t, all, DecryptLogin(EncryptLoginClient(all)))
	assert.Equal(t, []byte("NoS0575 3614038 admin"), DecryptLogin(EncryptLoginClient([]byte("NoS0575 3614038 admin"))))
}

func TestLoginRoundTrip_ServerToClient(t *testing.T) {
	plain := []byte("failc 5\n")
	assert.Equal(t, plain, DecryptLoginServer(EncryptLogin(plain)))
}

func TestDecryptLogin_IsNotInverseOfEncryptLogin(t *testing.T) {
	// Server encryption and client→server decryption are different directions;
	// composed they only flip the 0xC3 mask.
	for i := range 256 {
		b := byte(i)
		assert.Equal(t, b^0xC3, DecryptLogin(EncryptLogin([]byte{b}))[0], "byte 0x%02X", b)
	}
}

func TestLogin_DoesNotModifyInput(t *testing.T) {
	in := []byte("abc")
	_ = EncryptLogin(in)
	_ = DecryptLogin(in)
	assert.Equal(t, []byte("abc"), in)
}
