package crypto

import (
	"fmt"

	"github.com/udisondev/nosgo/internal/constants"
)

// direction of a channel transform.
type direction uint8

const (
	decode direction = iota // client→server bytes as received by the server
	encode                  // inverse: what the client puts on the wire
)

// channelByte applies the world channel transform for one byte.
// Payload decryption and delimiter derivation both go through here so the two
// can never disagree about the mode table.
func channelByte(b byte, s Schedule, dir direction) byte {
	sh := s.shift()
	if dir == decode {
		switch s.Mode {
		case ModeSubtract:
			return b - sh
		case ModeAdd:
			return b + sh
		case ModeSubtractXOR:
			return (b - sh) ^ constants.WorldChannelXOR
		case ModeAddXOR:
			return (b + sh) ^ constants.WorldChannelXOR
		}
	} else {
		switch s.Mode {
		case ModeSubtract:
			return b + sh
		case ModeAdd:
			return b - sh
		case ModeSubtractXOR:
			return (b ^ constants.WorldChannelXOR) + sh
		case ModeAddXOR:
			return (b ^ constants.WorldChannelXOR) - sh
		}
	}
	panic(fmt.Sprintf("crypto: unreachable channel mode %d", s.Mode))
}

// DecryptChannel decrypts a client→server world packet with the session key.
func DecryptChannel(cipher []byte, key uint16) []byte {
	s := Derive(key)
	out := make([]byte, len(cipher))
	for i, b := range cipher {
		out[i] = channelByte(b, s, decode)
	}
	return out
}

// EncryptChannel is the client-side inverse of DecryptChannel.
func EncryptChannel(plain []byte, key uint16) []byte {
	s := Derive(key)
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = channelByte(b, s, encode)
	}
	return out
}

// WorldDelimiter returns the byte that ends client→server world packets for key:
// the encrypted form of the 0xFF terminator.
//
// With sh = offset+0x40, modes 0 and 1 give 0xFF+sh and 0xFF-sh. For the XOR
// modes the delimiter is read as the exact inverse of decryption: (0xFF^0xC3)+sh
// for mode 2 and (0xFF^0xC3)-sh for mode 3. DecryptChannel therefore maps the
// delimiter back to 0xFF for every key.
func WorldDelimiter(key uint16) byte {
	return channelByte(constants.WorldTerminator, Derive(key), encode)
}
