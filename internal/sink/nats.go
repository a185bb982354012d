package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// publisher is the part of *nats.Conn NATSSink needs.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes packets as JSON to <prefix>.<channel>.<direction>.
type NATSSink struct {
	pub    publisher
	prefix string
}

// NewNATSSink wraps an existing connection.
func NewNATSSink(pub publisher, prefix string) *NATSSink {
	return &NATSSink{pub: pub, prefix: prefix}
}

// DialNATS connects to url and returns the sink plus the connection to drain on shutdown.
func DialNATS(url, prefix string) (*NATSSink, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("nosgo-inspector"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to nats %s: %w", url, err)
	}
	return NewNATSSink(nc, prefix), nc, nil
}

// Subject returns the subject a packet is published on.
func (s *NATSSink) Subject(p Packet) string {
	return fmt.Sprintf("%s.%s.%s", s.prefix, p.Channel, p.Direction)
}

func (s *NATSSink) Record(_ context.Context, p Packet) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling packet: %w", err)
	}
	if err := s.pub.Publish(s.Subject(p), data); err != nil {
		return fmt.Errorf("publishing packet: %w", err)
	}
	return nil
}
