package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранит сессии в таблице bot_sessions
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (r *PostgresStore) Load(ctx context.Context, chatID int64) (*Session, error) {
	query := `
		SELECT payload
		FROM bot_sessions
		WHERE chat_id = $1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, chatID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return New(chatID), nil // Сессии ещё нет
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := New(chatID)
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", chatID, err)
	}
	s.ChatID = chatID
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	return s, nil
}

func (r *PostgresStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", s.ChatID, err)
	}

	query := `
		INSERT INTO bot_sessions (chat_id, phone_number, state, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO UPDATE
		SET phone_number = EXCLUDED.phone_number,
		    state        = EXCLUDED.state,
		    payload      = EXCLUDED.payload,
		    updated_at   = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, s.ChatID, s.Phone, s.State, payload, s.UpdatedAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *PostgresStore) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM bot_sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *PostgresStore) ResetIdle(ctx context.Context, before time.Time) (int, error) {
	var reset int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM bot_sessions
			WHERE updated_at < $1 AND phone_number = ''
		`, before)
		if err != nil {
			return err
		}
		reset += tag.RowsAffected()

		// payload собирается заново: в JSON остаются только chat_id, телефон и время
		tag, err = tx.Exec(ctx, `
			UPDATE bot_sessions
			SET state   = '',
			    payload = jsonb_build_object(
			        'chat_id', chat_id,
			        'phone_number', phone_number,
			        'updated_at', updated_at
			    )
			WHERE updated_at < $1
			  AND phone_number <> ''
			  AND (state <> '' OR payload ?| array['history', 'fields', 'options', 'draft', 'page'])
		`, before)
		if err != nil {
			return err
		}
		reset += tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reset idle sessions: %w", err)
	}
	return int(reset), nil
}
