package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/outbox"
	"github.com/jackc/pgx/v5"
)

// claimLease is how long a fetched batch stays reserved for one relay
// before another relay may pick it up again.
const claimLease = 30 * time.Second

func insertOutbox(ctx context.Context, q querier, msgs []outbox.Message) error {
	b := &pgx.Batch{}
	for _, m := range msgs {
		b.Queue(`
			INSERT INTO outbox (event_id, topic, key, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.EventID, m.Topic, m.Key, m.EventType, m.Payload, m.CreatedAt)
	}
	if err := execBatch(ctx, q, b); err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

// FetchPending claims up to limit unsent messages. Rows locked by another
// relay are skipped; claims older than the lease are taken over.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE outbox SET claimed_at = now()
		WHERE id IN (
			SELECT id FROM outbox
			WHERE sent_at IS NULL
			  AND (claimed_at IS NULL OR claimed_at < now() - make_interval(secs => $2))
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED)
		RETURNING id, event_id::text, topic, key, event_type, payload, created_at`,
		limit, claimLease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []outbox.Message
	for rows.Next() {
		var m outbox.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.Topic, &m.Key, &m.EventType, &m.Payload, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = ANY($1)`, ids)
	return err
}
