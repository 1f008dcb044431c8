package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/guardianlink/backend/internal/model/chat"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS chat_messages (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	identity   TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_identity ON chat_messages(identity, seq);
`

// PostgresStore persists history through a pgx connection pool.
type PostgresStore struct {
	conn *pgxpool.Pool
}

// NewPostgresStore connects, pings and migrates.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &PostgresStore{conn: pool}, nil
}

func (r *PostgresStore) Get(ctx context.Context, identity string) ([]chat.Message, error) {
	query := `SELECT id, role, content, created_at
		FROM chat_messages WHERE identity = $1
		ORDER BY seq`

	rows, err := r.conn.Query(ctx, query, identity)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []chat.Message{}
	for rows.Next() {
		var (
			msg  chat.Message
			role string
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		msg.Role = chat.Role(role)
		msg.Timestamp = msg.Timestamp.UTC()
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (r *PostgresStore) Append(ctx context.Context, identity string, role chat.Role, content string) (chat.Message, error) {
	if err := validate(identity, role); err != nil {
		return chat.Message{}, err
	}

	now := time.Now().UTC()
	msg := chat.Message{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}

	query := `INSERT INTO chat_messages (id, identity, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.conn.Exec(ctx, query, msg.ID, identity, string(role), content, now); err != nil {
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (r *PostgresStore) Close() error {
	r.conn.Close()
	return nil
}
