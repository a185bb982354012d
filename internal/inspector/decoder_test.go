package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nosgo/internal/crypto"
	"github.com/udisondev/nosgo/internal/protocol"
	"github.com/udisondev/nosgo/internal/sink"
)

func texts(ds []decoded) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.text)
	}
	return out
}

// feedBytewise feeds data one byte at a time, as the worst-case TCP segmentation.
func feedBytewise(t *testing.T, d decoder, data []byte) []decoded {
	t.Helper()
	var all []decoded
	for i := range data {
		got, err := d.Feed(data[i : i+1])
		require.NoError(t, err)
		all = append(all, got...)
	}
	return all
}

func loginClientWire(packets ...string) []byte {
	var wire []byte
	for _, p := range packets {
		wire = append(wire, crypto.EncryptLoginClient([]byte(p+"\n"))...)
	}
	return wire
}

func TestLoginInbound(t *testing.T) {
	d := &loginInbound{}
	got := feedBytewise(t, d, loginClientWire("NoS0575 1 admin", "second"))
	assert.Equal(t, []string{"NoS0575 1 admin", "second"}, texts(got))
}

func TestLoginInbound_SingleChunk(t *testing.T) {
	d := &loginInbound{}
	wire := loginClientWire("a", "b")
	got, err := d.Feed(wire)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].rawLen)
}

func TestLoginInbound_InvalidText(t *testing.T) {
	d := &loginInbound{}
	wire := crypto.EncryptLoginClient([]byte{0xFF, '\n'})
	wire = append(wire, loginClientWire("ok")...)

	got, err := d.Feed(wire)
	assert.ErrorIs(t, err, crypto.ErrInvalidText)
	assert.Equal(t, []string{"ok"}, texts(got), "a bad packet must not swallow the next one")
}

func TestLoginOutbound(t *testing.T) {
	d := &loginOutbound{}
	got := feedBytewise(t, d, crypto.EncryptLogin([]byte("failc 5\nNsTeST 1 admin\n")))
	assert.Equal(t, []string{"failc 5", "NsTeST 1 admin"}, texts(got))
}

func TestWorldInbound(t *testing.T) {
	sess := &session{}
	d := &worldInbound{sess: sess}

	// session blob: "4242  " → key 4242
	got, err := d.Feed([]byte{0x95, 0x95, 0x20, 0x0E})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4242  ", got[0].text)
	assert.Equal(t, 4, got[0].rawLen)

	key, ok := sess.Key()
	require.True(t, ok)
	require.Equal(t, uint16(4242), key)

	var wire []byte
	for _, p := range []string{"c_close 1", "walk 12 34 1 11"} {
		wire = append(wire, protocol.EncodeWorldInbound([]byte(p), key)...)
	}

	all := feedBytewise(t, d, wire)
	assert.Equal(t, []string{"c_close 1", "walk 12 34 1 11"}, texts(all))
}

func TestWorldInbound_BadSession(t *testing.T) {
	sess := &session{}
	d := &worldInbound{sess: sess}

	// 0x11 - 0x0F = 0x02: '-' ' ' has no digits
	_, err := d.Feed([]byte{0x11, 0x0E})
	assert.ErrorIs(t, err, protocol.ErrNoSession)

	_, ok := sess.Key()
	assert.False(t, ok)

	// the next terminated blob is tried
	got, err := d.Feed([]byte{0x95, 0x95, 0x0E})
	require.NoError(t, err)
	assert.Equal(t, []string{"4242"}, texts(got))
}

func TestWorldInbound_SessionAndPacketsInOneChunk(t *testing.T) {
	const key = 4242
	wire := []byte{0x95, 0x95, 0x20, 0x0E}
	wire = append(wire, protocol.EncodeWorldInbound([]byte("walk 1 2"), key)...)
	wire = append(wire, protocol.EncodeWorldInbound([]byte("c_close 1"), key)...)

	t.Run("single feed", func(t *testing.T) {
		sess := &session{}
		got, err := (&worldInbound{sess: sess}).Feed(wire)
		require.NoError(t, err)
		assert.Equal(t, []string{"4242  ", "walk 1 2", "c_close 1"}, texts(got))

		k, ok := sess.Key()
		require.True(t, ok)
		assert.Equal(t, uint16(key), k)
	})

	t.Run("bytewise", func(t *testing.T) {
		sess := &session{}
		got := feedBytewise(t, &worldInbound{sess: sess}, wire)
		assert.Equal(t, []string{"4242  ", "walk 1 2", "c_close 1"}, texts(got))
	})
}

func TestWorldInbound_WaitsForTerminator(t *testing.T) {
	sess := &session{}
	d := &worldInbound{sess: sess}

	got, err := d.Feed([]byte{0x95, 0x95})
	require.NoError(t, err)
	assert.Empty(t, got)
	_, ok := sess.Key()
	assert.False(t, ok)

	got, err = d.Feed([]byte{0x0E})
	require.NoError(t, err)
	assert.Equal(t, []string{"4242"}, texts(got))
}

func TestWorldOutbound(t *testing.T) {
	d := &worldOutbound{}

	var wire []byte
	for _, p := range []string{"in 1 2", "at 1 1 2"} {
		wire = append(wire, protocol.WorldEncrypt(p)...)
	}

	got := feedBytewise(t, d, wire)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"in 1 2", "at 1 1 2"}, texts(got))
	assert.Equal(t, len(protocol.WorldEncrypt("in 1 2")), got[0].rawLen)
}

func TestStream_FrameTooLarge(t *testing.T) {
	d := &loginInbound{}
	big := make([]byte, 64*1024+1)

	_, err := d.Feed(big)
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	got, err := d.Feed(loginClientWire("after"))
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, texts(got))
}

func TestNewDecoders(t *testing.T) {
	in, out := newDecoders(sink.ChannelLogin, &session{})
	assert.IsType(t, &loginInbound{}, in)
	assert.IsType(t, &loginOutbound{}, out)

	in, out = newDecoders(sink.ChannelWorld, &session{})
	assert.IsType(t, &worldInbound{}, in)
	assert.IsType(t, &worldOutbound{}, out)
}
