package constants

// NosTale Protocol Constants
//
// Wire-level constants shared by the login and world channel codecs.
// All values are fixed by the game client and must match bit-for-bit.

// Login Channel Constants
const (
	// LoginDelimiter terminates every client→server login packet.
	// It is the newline 0x0A after client-side login encryption.
	LoginDelimiter = 0xD8

	// LoginServerDelimiter terminates every server→client login packet
	// (newline 0x0A after server-side login encryption).
	LoginServerDelimiter = 0x19

	// LoginShift is added by server-side login encryption and removed by both decrypt paths.
	LoginShift = 0x0F

	// LoginXOR is the mask applied to client→server login bytes.
	LoginXOR = 0xC3
)

// World Channel Constants
const (
	// WorldTerminator is the plaintext byte whose encrypted form delimits
	// client→server world packets. It also ends every encoded server→client frame.
	WorldTerminator = 0xFF

	// WorldChannelShift is added to the session offset in every channel mode.
	WorldChannelShift = 0x40

	// WorldChannelXOR is the mask used by the XOR channel modes (2 and 3).
	WorldChannelXOR = 0xC3

	// WorldSegmentSize is the maximum literal count behind one length marker
	// in an encoded server→client world frame.
	WorldSegmentSize = 0x7E

	// SessionShift is removed from every byte of the packed session blob.
	SessionShift = 0x0F

	// SessionTerminator ends the packed session blob on the wire. It unpacks to
	// nibbles 15/15, which never occur inside a session string.
	SessionTerminator = 0x0E
)

// Channel Pack Constants
const (
	// RunLengthMask extracts the run length from a run header byte.
	RunLengthMask = 0x7F

	// RunCompactFlag marks a compact (nibble-packed) run in a run header byte.
	RunCompactFlag = 0x80

	// MaxRunLength is the longest run Pack emits. 127 is legal on the wire,
	// but a compact header of 0x80|127 equals WorldTerminator.
	MaxRunLength = 0x7E

	// MinCompactRun is the shortest packable run Pack stores compactly.
	MinCompactRun = 4
)

// Buffer Size Constants
const (
	// DefaultReadBufSize is the per-read buffer size of the inspector pumps.
	DefaultReadBufSize = 4096

	// MaxFrameSize bounds a single buffered frame in stream scanners.
	MaxFrameSize = 64 * 1024
)
