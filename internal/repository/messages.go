package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/models"
)

// MessageRepository handles chat message persistence
type MessageRepository struct {
	db *Database
}

// Save inserts a message; saving the same message id again is a no-op
func (r *MessageRepository) Save(ctx context.Context, msg models.InboundMessage) error {
	query := `
		INSERT INTO chat_messages (message_id, chat_name, author, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (message_id) DO NOTHING
	`

	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, query,
		msg.MessageID, msg.ChatName, msg.Author, msg.Body, nullTime(msg.SentAt),
	)
	if err != nil {
		metrics.RecordDBQuery("insert", "chat_messages", "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to save message: %w", err)
	}
	metrics.RecordDBQuery("insert", "chat_messages", "success", time.Since(start).Seconds())

	log.Debug().
		Str("message_id", msg.MessageID).
		Int64("rows_affected", result.RowsAffected()).
		Msg("Message saved")

	return nil
}

// ListRecent returns the most recent messages, oldest first so replays apply
// them in receipt order
func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]models.InboundMessage, error) {
	query := `
		SELECT message_id, chat_name, author, body, sent_at
		FROM (
			SELECT message_id, chat_name, author, body, sent_at, received_at, id
			FROM chat_messages
			ORDER BY received_at DESC, id DESC
			LIMIT $1
		) recent
		ORDER BY received_at ASC, id ASC
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		metrics.RecordDBQuery("select", "chat_messages", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}
	defer rows.Close()

	var messages []models.InboundMessage
	for rows.Next() {
		var msg models.InboundMessage
		var sentAt *time.Time
		if err := rows.Scan(&msg.MessageID, &msg.ChatName, &msg.Author, &msg.Body, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if sentAt != nil {
			msg.SentAt = *sentAt
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	metrics.RecordDBQuery("select", "chat_messages", "success", time.Since(start).Seconds())

	return messages, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
