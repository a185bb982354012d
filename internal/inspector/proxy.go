package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/nosgo/internal/config"
	"github.com/udisondev/nosgo/internal/constants"
	"github.com/udisondev/nosgo/internal/sink"
)

const dialTimeout = 5 * time.Second

// Proxy relays one channel between game clients and the real server and
// decodes everything that passes through. Bytes are forwarded unchanged;
// decoding never blocks or breaks the relay.
type Proxy struct {
	channel sink.Channel
	cfg     config.ChannelConfig
	sink    sink.Sink
	metrics *Metrics
	pool    *BytePool

	listener net.Listener
	mu       sync.Mutex
}

// NewProxy creates a proxy for channel.
func NewProxy(channel sink.Channel, cfg config.ChannelConfig, s sink.Sink, m *Metrics) *Proxy {
	return &Proxy{
		channel: channel,
		cfg:     cfg,
		sink:    s,
		metrics: m,
		pool:    NewBytePool(constants.DefaultReadBufSize),
	}
}

// Addr возвращает адрес, на котором слушает прокси.
// Возвращает nil если прокси ещё не запущен.
func (p *Proxy) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Close закрывает listener.
func (p *Proxy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener != nil {
		return p.listener.Close()
	}
	return nil
}

// Run listens on cfg.Listen and serves until ctx is done.
func (p *Proxy) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", p.cfg.Listen, err)
	}
	return p.Serve(ctx, ln)
}

// Serve принимает готовый listener и запускает accept loop.
func (p *Proxy) Serve(ctx context.Context, ln net.Listener) error {
	p.mu.Lock()
	p.listener = ln
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("proxy started", "channel", p.channel, "address", ln.Addr(), "upstream", p.cfg.Upstream)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("failed to accept connection", "channel", p.channel, "err", err)
			continue
		}
		wg.Go(func() {
			p.handleConnection(ctx, conn)
		})
	}
}

func (p *Proxy) handleConnection(ctx context.Context, client net.Conn) {
	defer client.Close()

	remote := client.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	upstream, err := dialer.DialContext(ctx, "tcp", p.cfg.Upstream)
	if err != nil {
		slog.Error("failed to dial upstream", "channel", p.channel, "upstream", p.cfg.Upstream, "remote", remote, "err", err)
		return
	}
	defer upstream.Close()

	p.metrics.connOpened(p.channel)
	defer p.metrics.connClosed(p.channel)
	slog.Info("new connection", "channel", p.channel, "remote", remote)

	sess := &session{}
	in, out := newDecoders(p.channel, sess)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.pump(ctx, client, upstream, in, sink.DirectionInbound, remote, sess)
	})
	g.Go(func() error {
		return p.pump(ctx, upstream, client, out, sink.DirectionOutbound, remote, sess)
	})

	// Закрываем оба соединения, когда любая сторона завершилась,
	// чтобы разблокировать второй pump.
	go func() {
		<-gctx.Done()
		client.Close()
		upstream.Close()
	}()

	if err := g.Wait(); err != nil && !isClosed(err) {
		slog.Warn("connection ended", "channel", p.channel, "remote", remote, "err", err)
		return
	}
	slog.Info("connection closed", "channel", p.channel, "remote", remote)
}

// pump copies src to dst and feeds every chunk to dec.
// ctx is the connection's parent context so packets read right before a hangup
// still reach the sink. It returns io.EOF when src is exhausted so the errgroup cancels the other pump.
func (p *Proxy) pump(
	ctx context.Context,
	src, dst net.Conn,
	dec decoder,
	dir sink.Direction,
	remote string,
	sess *session,
) error {
	bufp := p.pool.Get()
	defer p.pool.Put(bufp)
	buf := *bufp

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("forwarding %s: %w", dir, werr)
			}
			p.metrics.forwarded(p.channel, dir, n)
			p.decode(ctx, dec, buf[:n], dir, remote, sess)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("reading %s: %w", dir, err)
		}
	}
}

func (p *Proxy) decode(ctx context.Context, dec decoder, chunk []byte, dir sink.Direction, remote string, sess *session) {
	packets, err := dec.Feed(chunk)
	if err != nil {
		p.metrics.decodeError(p.channel, dir)
		slog.Warn("decode failed", "channel", p.channel, "direction", dir, "remote", remote, "err", err)
	}

	key, _ := sess.Key()
	for _, d := range packets {
		p.metrics.packet(p.channel, dir)
		pkt := sink.Packet{
			Channel:    p.channel,
			Direction:  dir,
			Remote:     remote,
			SessionKey: key,
			Text:       d.text,
			RawLen:     d.rawLen,
			CapturedAt: time.Now(),
		}
		if err := p.sink.Record(ctx, pkt); err != nil {
			p.metrics.sinkError()
			slog.Warn("sink record failed", "channel", p.channel, "direction", dir, "remote", remote, "err", err)
		}
	}
}

// isClosed reports errors that mean a peer hung up rather than a fault.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
