package flow

import (
	"errors"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"go.uber.org/zap"
)

var (
	ErrNoOption        = errors.New("option was not offered")
	ErrDraftIncomplete = errors.New("booking draft is incomplete")
	ErrTransition      = errors.New("transition not allowed")

	// errHalt шаг уже ответил пользователю и переход не выполняется
	errHalt = errors.New("step halted")
)

const (
	textUnavailable = "⚠️ Сервер недоступний. Спробуйте пізніше."
	textUnknown     = "⛔ Невідома команда. Виберіть пункт із меню або введіть /start."
)

// errorText возвращает пользовательское сообщение для ошибки
func errorText(err error) string {
	switch {
	case errors.Is(err, backend.ErrUnavailable):
		return textUnavailable
	case errors.Is(err, backend.ErrNotFound):
		return "❌ Дані не знайдено."
	case errors.Is(err, ErrNoOption):
		return "❌ Оберіть пункт із меню."
	case errors.Is(err, ErrDraftIncomplete):
		return "⚠️ Дані для бронювання неповні. Спробуйте почати з початку."
	default:
		return "❌ Сталася помилка. Спробуйте ще раз або введіть /start."
	}
}

// recoverable ошибки, после которых диалог остаётся в текущем состоянии
func recoverable(err error) bool {
	var statusErr *backend.StatusError
	return errors.Is(err, ErrNoOption) ||
		errors.Is(err, backend.ErrUnavailable) ||
		errors.Is(err, backend.ErrNotFound) ||
		errors.Is(err, backend.ErrDuplicate) ||
		errors.As(err, &statusErr)
}

// fail сообщает об ошибке. Неожиданные ошибки сбрасывают диалог в главное меню.
func (e *Engine) fail(t *turn, err error) {
	if errors.Is(err, errHalt) {
		return
	}

	fields := []zap.Field{
		zap.Int64("chat_id", t.in.ChatID),
		zap.String("state", t.s.State),
		zap.Error(err),
	}

	if recoverable(err) {
		e.logger.Warn("Step failed", fields...)
		t.note(errorText(err))
		return
	}

	e.logger.Error("Unexpected flow error, resetting session", fields...)
	t.s.Clear(true)
	if t.s.Phone == "" {
		t.say(errorText(err), keyboard.ShareContact())
		return
	}
	t.say(errorText(err), keyboard.Main())
}
