// Package sink receives packets decoded by the inspector.
package sink

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Channel identifies the protocol phase a packet belongs to.
type Channel string

const (
	ChannelLogin Channel = "login"
	ChannelWorld Channel = "world"
)

// Direction is the flow of a packet relative to the game server.
type Direction string

const (
	DirectionInbound  Direction = "in"  // client → server
	DirectionOutbound Direction = "out" // server → client
)

// Packet is one decoded packet observed on a proxied connection.
type Packet struct {
	Channel    Channel   `json:"channel"`
	Direction  Direction `json:"direction"`
	Remote     string    `json:"remote"`
	SessionKey uint16    `json:"session_key"`
	Text       string    `json:"text"`
	RawLen     int       `json:"raw_len"`
	CapturedAt time.Time `json:"captured_at"`
}

// Sink stores or forwards decoded packets.
type Sink interface {
	Record(ctx context.Context, p Packet) error
}

// LogSink writes every packet to slog at debug level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, p Packet) error {
	s.logger.DebugContext(ctx, "packet",
		"channel", p.Channel,
		"direction", p.Direction,
		"remote", p.Remote,
		"session", p.SessionKey,
		"raw_len", p.RawLen,
		"text", p.Text,
	)
	return nil
}

// Multi fans a packet out to every sink. All sinks are tried; errors are joined.
type Multi []Sink

func (m Multi) Record(ctx context.Context, p Packet) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
