package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one timeline entry for an entity (booking, order, payment, ...).
// Unlike audit_logs, this feed is shown to the entity's owner.
type Event struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	EventType  string          `json:"eventType"`
	Summary    string          `json:"summary"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func Insert(ctx context.Context, tx pgx.Tx, entityType, entityID, eventType, summary, actor string, occurredAt time.Time, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO entity_events (entity_type, entity_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, $6, CAST($7 AS jsonb))
`
	_, err := tx.Exec(ctx, q, entityType, entityID, eventType, summary, actor, occurredAt, s)
	return err
}

func ListByEntity(ctx context.Context, db *pgxpool.Pool, entityType, entityID string) ([]Event, error) {
	const q = `
SELECT id, entity_type, entity_id, event_type, summary, actor, occurred_at, COALESCE(data, 'null'::jsonb)
FROM entity_events
WHERE entity_type = $1 AND entity_id = $2
ORDER BY occurred_at ASC, id ASC
`
	rows, err := db.Query(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
