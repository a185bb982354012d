package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/nosgo/internal/sink"
)

// PacketRepository stores decoded packets. It implements sink.Sink.
type PacketRepository struct {
	pool *pgxpool.Pool
}

// NewPacketRepository creates a repository on top of pool.
func NewPacketRepository(pool *pgxpool.Pool) *PacketRepository {
	return &PacketRepository{pool: pool}
}

// Record inserts one packet.
func (r *PacketRepository) Record(ctx context.Context, p sink.Packet) error {
	// Postgres TEXT rejects NUL; unpacked world text may carry the 0x00 sentinel
	text := strings.ReplaceAll(p.Text, "\x00", "")

	_, err := r.pool.Exec(ctx,
		`INSERT INTO packets (channel, direction, remote, session_key, text, raw_len, captured_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(p.Channel), string(p.Direction), p.Remote, int32(p.SessionKey), text, p.RawLen, p.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting %s/%s packet: %w", p.Channel, p.Direction, err)
	}
	return nil
}

// ListBySession returns up to limit packets of a world session, oldest first.
func (r *PacketRepository) ListBySession(ctx context.Context, key uint16, limit int) ([]sink.Packet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel, direction, remote, session_key, text, raw_len, captured_at
		 FROM packets WHERE session_key = $1
		 ORDER BY captured_at, id LIMIT $2`,
		int32(key), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying packets of session %d: %w", key, err)
	}

	packets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sink.Packet, error) {
		var (
			p          sink.Packet
			channel    string
			direction  string
			sessionKey int32
		)
		if err := row.Scan(&channel, &direction, &p.Remote, &sessionKey, &p.Text, &p.RawLen, &p.CapturedAt); err != nil {
			return p, err
		}
		p.Channel = sink.Channel(channel)
		p.Direction = sink.Direction(direction)
		p.SessionKey = uint16(sessionKey)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning packets of session %d: %w", key, err)
	}
	return packets, nil
}

// ChannelCount is the number of stored packets for one channel and direction.
type ChannelCount struct {
	Channel   sink.Channel
	Direction sink.Direction
	Count     int64
}

// CountByChannel aggregates stored packets per channel and direction.
func (r *PacketRepository) CountByChannel(ctx context.Context) ([]ChannelCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel, direction, COUNT(*)
		 FROM packets GROUP BY channel, direction
		 ORDER BY channel, direction`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting packets: %w", err)
	}
	defer rows.Close()

	var counts []ChannelCount
	for rows.Next() {
		var (
			c                  ChannelCount
			channel, direction string
		)
		if err := rows.Scan(&channel, &direction, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning packet count: %w", err)
		}
		c.Channel = sink.Channel(channel)
		c.Direction = sink.Direction(direction)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating packet counts: %w", err)
	}
	return counts, nil
}
