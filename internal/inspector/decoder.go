package inspector

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/udisondev/nosgo/internal/constants"
	"github.com/udisondev/nosgo/internal/crypto"
	"github.com/udisondev/nosgo/internal/protocol"
	"github.com/udisondev/nosgo/internal/sink"
)

// ErrFrameTooLarge is returned when a direction buffers more than
// constants.MaxFrameSize bytes without seeing a packet boundary.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// decoded is one packet produced by a decoder.
type decoded struct {
	text   string
	rawLen int
}

// decoder turns the raw bytes of one direction into packets.
// Feed is called from a single pump goroutine; chunk is only valid during the call.
type decoder interface {
	Feed(chunk []byte) ([]decoded, error)
}

// session holds the world key shared by both directions of a connection.
type session struct {
	key   atomic.Uint32
	known atomic.Bool
}

func (s *session) set(key uint16) {
	s.key.Store(uint32(key))
	s.known.Store(true)
}

// Key returns the session key and whether it is known yet.
func (s *session) Key() (uint16, bool) {
	if !s.known.Load() {
		return 0, false
	}
	return uint16(s.key.Load()), true
}

// stream buffers bytes across reads until a framer finds a boundary.
// The framers are the protocol ones; bufio.Scanner does not fit here because the
// pump owns the conn reads, the world framer changes once the session key is
// known, and one bad or oversized frame must not end the connection.
type stream struct {
	buf []byte
}

func (s *stream) push(chunk []byte) error {
	if len(s.buf)+len(chunk) > constants.MaxFrameSize {
		s.buf = s.buf[:0]
		return ErrFrameTooLarge
	}
	s.buf = append(s.buf, chunk...)
	return nil
}

// next pops frames from the buffer. The remainder is moved to the front so the
// buffer does not grow with the connection lifetime.
func (s *stream) next(framer func([]byte) ([]byte, []byte, bool), fn func(frame []byte) error) error {
	var errs []error
	buf := s.buf
	for {
		frame, rest, ok := framer(buf)
		if !ok {
			break
		}
		if err := fn(frame); err != nil {
			errs = append(errs, err)
		}
		buf = rest
	}
	s.buf = append(s.buf[:0], buf...)
	return errors.Join(errs...)
}

// loginInbound decodes client→server login packets.
type loginInbound struct {
	stream
}

func (d *loginInbound) Feed(chunk []byte) ([]decoded, error) {
	if err := d.push(chunk); err != nil {
		return nil, err
	}
	var out []decoded
	err := d.next(protocol.LoginNext, func(frame []byte) error {
		text, err := protocol.LoginDecrypt(frame)
		if err != nil {
			return err
		}
		out = append(out, decoded{text: text, rawLen: len(frame)})
		return nil
	})
	return out, err
}

// loginOutbound decodes server→client login packets.
type loginOutbound struct {
	stream
}

func (d *loginOutbound) Feed(chunk []byte) ([]decoded, error) {
	if err := d.push(chunk); err != nil {
		return nil, err
	}
	var out []decoded
	err := d.next(protocol.LoginServerNext, func(frame []byte) error {
		out = append(out, decoded{text: string(crypto.DecryptLoginServer(frame)), rawLen: len(frame)})
		return nil
	})
	return out, err
}

// worldInbound decodes client→server world packets. The connection opens with
// the packed session blob; it yields the key for everything after it.
type worldInbound struct {
	stream
	sess *session
}

func (d *worldInbound) Feed(chunk []byte) ([]decoded, error) {
	if err := d.push(chunk); err != nil {
		return nil, err
	}

	var out []decoded
	key, ok := d.sess.Key()
	if !ok {
		blob, rest, found := protocol.SessionNext(d.buf)
		if !found {
			return nil, nil
		}
		p, err := d.readSession(blob)
		d.buf = append(d.buf[:0], rest...)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		key, _ = d.sess.Key()
	}

	framer := func(buf []byte) ([]byte, []byte, bool) {
		return protocol.WorldNext(buf, key)
	}
	err := d.next(framer, func(frame []byte) error {
		text := protocol.DecodeWorldInbound(frame, key)
		out = append(out, decoded{text: string(text), rawLen: len(frame)})
		return nil
	})
	return out, err
}

// readSession decodes the session blob and publishes its key.
func (d *worldInbound) readSession(blob []byte) (decoded, error) {
	text := crypto.DecryptSession(blob)
	id, err := protocol.ParseSession(text)
	if err != nil {
		return decoded{}, fmt.Errorf("reading session packet: %w", err)
	}
	d.sess.set(id)
	return decoded{text: string(text), rawLen: len(blob) + 1}, nil
}

// flush treats whatever is buffered as an unterminated session blob.
// Offline dumps are often cut right before the terminator.
func (d *worldInbound) flush() ([]decoded, error) {
	if _, ok := d.sess.Key(); ok || len(d.buf) == 0 {
		return nil, nil
	}
	p, err := d.readSession(d.buf)
	d.buf = d.buf[:0]
	if err != nil {
		return nil, err
	}
	return []decoded{p}, nil
}

// worldOutbound decodes server→client world frames.
type worldOutbound struct {
	stream
}

func (d *worldOutbound) Feed(chunk []byte) ([]decoded, error) {
	if err := d.push(chunk); err != nil {
		return nil, err
	}
	var out []decoded
	var consumed int
	framer := func(buf []byte) ([]byte, []byte, bool) {
		plain, rest, ok := crypto.DecodeWorld(buf)
		consumed = len(buf) - len(rest)
		return plain, rest, ok
	}
	err := d.next(framer, func(plain []byte) error {
		out = append(out, decoded{text: string(plain), rawLen: consumed})
		return nil
	})
	return out, err
}

// newDecoders returns the inbound and outbound decoders for a channel.
func newDecoders(ch sink.Channel, sess *session) (in, out decoder) {
	if ch == sink.ChannelLogin {
		return &loginInbound{}, &loginOutbound{}
	}
	return &worldInbound{sess: sess}, &worldOutbound{}
}
