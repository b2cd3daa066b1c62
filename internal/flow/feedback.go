package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"go.uber.org/zap"
)

const (
	fieldFeedback = "feedback"
	deletedAuthor = "Видалений акаунт"
)

func (e *Engine) enterFeedbackMenu(t *turn) error {
	t.say("Меню відгуків:", keyboard.Feedback())
	return nil
}

func (e *Engine) handleFeedbackMenu(t *turn) error {
	switch t.text {
	case keyboard.BtnFeedbackSend:
		return e.advance(t, StateFeedbackTyping)
	case keyboard.BtnFeedbackAll:
		return e.advance(t, StateFeedbackList)
	default:
		return e.unknown(t)
	}
}

func (e *Engine) enterFeedbackTyping(t *turn) error {
	t.say("📝 Напишіть свій відгук:", keyboard.Back())
	return nil
}

func (e *Engine) handleFeedbackTyping(t *turn) error {
	if t.text == "" {
		t.note("📝 Відгук не може бути порожнім.")
		return nil
	}
	t.s.SetField(fieldFeedback, t.text)
	return e.advance(t, StateFeedbackConfirm)
}

func (e *Engine) enterFeedbackConfirm(t *turn) error {
	draft := t.s.Field(fieldFeedback)
	if draft == "" {
		return errors.New("feedback draft lost")
	}
	t.say(fmt.Sprintf("📄 Ваш відгук:\n\n%s\n\nНатисніть 📤 Відправити або ⬅️ Назад для редагування.", draft),
		keyboard.FeedbackPreview())
	return nil
}

func (e *Engine) handleFeedbackConfirm(t *turn) error {
	if t.text != keyboard.BtnFeedbackFinal {
		t.note("❗ Натисніть 📤 Відправити або ⬅️ Назад.")
		return nil
	}

	user, err := e.backend.UserByPhone(t.ctx, t.s.Phone)
	if errors.Is(err, backend.ErrNotFound) {
		t.s.Clear(true)
		t.say("❌ Користувача не знайдено.", keyboard.Main())
		return nil
	}
	if err != nil {
		return fmt.Errorf("get feedback author: %w", err)
	}

	if _, err := e.backend.SendFeedback(t.ctx, model.FeedbackInput{UserID: user.ID, Text: t.s.Field(fieldFeedback)}); err != nil {
		e.logger.Error("Failed to send feedback", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося надіслати відгук. Спробуйте пізніше.")
		return nil
	}

	t.note("✅ Ваш відгук надіслано. Дякуємо!")
	t.s.Clear(true)
	return e.advance(t, StateFeedbackMenu)
}

func (e *Engine) enterFeedbackList(t *turn) error {
	return e.renderFeedback(t, 1)
}

func (e *Engine) handleFeedbackList(t *turn) error {
	switch t.text {
	case keyboard.BtnPrev, keyboard.BtnNext:
		return e.renderFeedback(t, t.s.Page, t.text)
	case keyboard.BtnFeedbackMenu:
		return e.unwind(t, StateFeedbackMenu)
	default:
		return e.unknown(t)
	}
}

// renderFeedback показывает страницу отзывов, новые сверху
func (e *Engine) renderFeedback(t *turn, page int, move ...string) error {
	items, err := e.backend.Feedback(t.ctx)
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}
	if len(items) == 0 {
		t.note("😔 Ще немає жодного відгуку.")
		return errHalt
	}
	slices.Reverse(items)

	total := TotalPages(len(items))
	page = ClampPage(page, total)
	if len(move) > 0 {
		page = turnPage(page, total, move[0])
	}
	start, end := PageBounds(page, len(items))

	authors := make(map[int64]string)
	lines := make([]string, 0, end-start)
	for _, fb := range items[start:end] {
		name, ok := authors[fb.UserID]
		if !ok {
			name = e.authorName(t, fb.UserID)
			authors[fb.UserID] = name
		}
		lines = append(lines, fmt.Sprintf("👤 %s (ID: %d)\n🕓 %s\n💬 %s",
			name, fb.UserID, e.formatBackendTime(fb.When()), fb.Text))
	}

	t.s.Page = page
	t.say(fmt.Sprintf("📝 Відгуки (сторінка %d/%d):\n\n%s", page, total, strings.Join(lines, "\n\n")),
		keyboard.Pagination(page, total, keyboard.BtnFeedbackMenu))
	return nil
}

func (e *Engine) authorName(t *turn, userID int64) string {
	user, err := e.backend.UserByID(t.ctx, userID)
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			e.logger.Warn("Failed to resolve feedback author", zap.Int64("user_id", userID), zap.Error(err))
		}
		return deletedAuthor
	}
	if name := user.FullName(); name != "" {
		return name
	}
	return deletedAuthor
}
