package session

import (
	"context"
	"time"
)

// Store хранилище сессий.
// Load возвращает новую пустую сессию, если записи нет.
// ResetIdle сбрасывает диалоги, не менявшиеся с before: сессии с телефоном
// остаются с пустым диалогом, сессии без телефона удаляются.
type Store interface {
	Load(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, chatID int64) error
	ResetIdle(ctx context.Context, before time.Time) (int, error)
}
