package inspector

import (
	"fmt"

	"github.com/udisondev/nosgo/internal/crypto"
	"github.com/udisondev/nosgo/internal/protocol"
	"github.com/udisondev/nosgo/internal/sink"
)

// DumpOptions selects how a captured byte dump is interpreted.
type DumpOptions struct {
	Channel   sink.Channel
	Direction sink.Direction
	// Key is the world session key. Ignored for login dumps and when Session is set.
	Key uint16
	// Session marks a world inbound dump that starts with the session blob.
	// The blob ends at the 0x0E terminator or, when that is missing, at the end of the dump.
	Session bool
}

// flusher is implemented by decoders that can finish a partial buffer at end of input.
type flusher interface {
	flush() ([]decoded, error)
}

// DecodeDump decodes a captured stream with the same decoders the proxy uses.
// Decode errors of single packets are returned joined, next to the packets that did decode.
func DecodeDump(opts DumpOptions, data []byte) ([]string, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	sess := &session{}
	if !opts.Session {
		sess.set(opts.Key)
	}
	in, out := newDecoders(opts.Channel, sess)
	dec := out
	if opts.Direction == sink.DirectionInbound {
		dec = in
	}

	packets, err := dec.Feed(data)
	if f, ok := dec.(flusher); ok && err == nil {
		var tail []decoded
		tail, err = f.flush()
		packets = append(packets, tail...)
	}
	texts := make([]string, 0, len(packets))
	for _, p := range packets {
		texts = append(texts, p.text)
	}
	return texts, err
}

// EncodeText builds the wire bytes of one packet, delimiter included.
// It is the inverse of DecodeDump and is used to craft test captures.
func EncodeText(opts DumpOptions, text string) ([]byte, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	switch {
	case opts.Channel == sink.ChannelLogin && opts.Direction == sink.DirectionInbound:
		return crypto.EncryptLoginClient([]byte(text + "\n")), nil
	case opts.Channel == sink.ChannelLogin:
		return protocol.LoginEncrypt(text + "\n"), nil
	case opts.Direction == sink.DirectionInbound:
		return protocol.EncodeWorldInbound([]byte(text), opts.Key), nil
	default:
		return protocol.WorldEncrypt(text), nil
	}
}

func validate(opts DumpOptions) error {
	switch opts.Channel {
	case sink.ChannelLogin, sink.ChannelWorld:
	default:
		return fmt.Errorf("unknown channel %q", opts.Channel)
	}
	switch opts.Direction {
	case sink.DirectionInbound, sink.DirectionOutbound:
	default:
		return fmt.Errorf("unknown direction %q", opts.Direction)
	}
	return nil
}
