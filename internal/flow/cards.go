package flow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/Freeeeeet/parkflow_bot/internal/session"
	"go.uber.org/zap"
)

const (
	fieldCardNumber = "card_number"
	fieldCardExpiry = "card_exp"
	fieldCardID     = "card_id"
)

func (e *Engine) enterCardMenu(t *turn) error {
	t.say("Оберіть дію з картками:", keyboard.Cards())
	return nil
}

func (e *Engine) handleCardMenu(t *turn) error {
	switch t.text {
	case keyboard.BtnCardList:
		return e.listCards(t)
	case keyboard.BtnCardAdd:
		return e.advance(t, StateCardAddNumber)
	case keyboard.BtnCardEdit:
		return e.advance(t, StateCardEditSelect)
	case keyboard.BtnCardDelete:
		return e.advance(t, StateCardDeleteSelect)
	default:
		return e.unknown(t)
	}
}

func cardLine(c model.Card) string {
	return fmt.Sprintf("%s — %s", model.MaskCardNumber(c.Number), c.ExpDate)
}

func (e *Engine) listCards(t *turn) error {
	cards, err := e.backend.Cards(t.ctx, t.s.Phone)
	if err != nil {
		e.logger.Error("Failed to list cards", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Помилка при завантаженні карток.")
		return nil
	}
	if len(cards) == 0 {
		t.note("📭 У вас немає збережених карток.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("💳 Ваші картки:\n\n")
	for i, c := range cards {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, cardLine(c))
	}
	t.note(strings.TrimRight(sb.String(), "\n"))
	return nil
}

func (e *Engine) enterCardAddNumber(t *turn) error {
	t.say("Введіть номер картки (16 цифр):", keyboard.Back())
	return nil
}

func (e *Engine) enterCardAddExpiry(t *turn) error {
	t.say("Введіть термін дії (MM/YY):", keyboard.Back())
	return nil
}

func (e *Engine) enterCardAddCVV(t *turn) error {
	t.say("Введіть CVV (3 цифри):", keyboard.Back())
	return nil
}

func (e *Engine) enterCardEditNumber(t *turn) error {
	t.say("Введіть новий номер картки:", keyboard.Back())
	return nil
}

func (e *Engine) enterCardEditExpiry(t *turn) error {
	t.say("Введіть новий термін дії (MM/YY):", keyboard.Back())
	return nil
}

func (e *Engine) enterCardEditCVV(t *turn) error {
	t.say("Введіть новий CVV:", keyboard.Back())
	return nil
}

// handleCardNumber общий шаг добавления и изменения карты
func (e *Engine) handleCardNumber(t *turn) error {
	number := NormalizeCardNumber(t.text)
	if !ValidCardNumber(number) {
		t.note("❌ Номер має бути з 16 цифр:")
		return nil
	}
	t.s.SetField(fieldCardNumber, number)
	if t.state() == StateCardEditNumber {
		return e.advance(t, StateCardEditExpiry)
	}
	return e.advance(t, StateCardAddExpiry)
}

func (e *Engine) handleCardExpiry(t *turn) error {
	if !ValidExpiry(t.text) {
		t.note("❌ Формат має бути MM/YY:")
		return nil
	}
	t.s.SetField(fieldCardExpiry, t.text)
	if t.state() == StateCardEditExpiry {
		return e.advance(t, StateCardEditCVV)
	}
	return e.advance(t, StateCardAddCVV)
}

func (e *Engine) cardInput(t *turn) (model.CardInput, bool) {
	if !ValidCVV(t.text) {
		t.note("❌ CVV має бути з 3 цифр:")
		return model.CardInput{}, false
	}
	return model.CardInput{
		Number:  t.s.Field(fieldCardNumber),
		ExpDate: t.s.Field(fieldCardExpiry),
		CVV:     t.text,
	}, true
}

func (e *Engine) handleCardAddCVV(t *turn) error {
	in, ok := e.cardInput(t)
	if !ok {
		return nil
	}

	err := e.backend.AddCard(t.ctx, t.s.Phone, in)
	switch {
	case err == nil:
		e.logger.Info("Card added", zap.Int64("chat_id", t.in.ChatID))
		t.note("✅ Картку додано успішно.")
	case errors.Is(err, backend.ErrDuplicate):
		t.note("⚠️ Така картка вже існує.")
	default:
		e.logger.Error("Failed to add card", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося додати картку.")
	}
	return e.unwind(t, StateCardMenu)
}

func (e *Engine) offerCards(t *turn, text string) error {
	cards, err := e.backend.Cards(t.ctx, t.s.Phone)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}
	if len(cards) == 0 {
		t.note("📭 У вас немає карток.")
		return errHalt
	}

	options := make([]session.Option, 0, len(cards))
	for _, c := range cards {
		options = append(options, session.Option{ID: c.ID, Label: "💳 " + cardLine(c)})
	}
	t.offer(text, options)
	return nil
}

func (e *Engine) enterCardEditSelect(t *turn) error {
	return e.offerCards(t, "Оберіть картку для зміни:")
}

func (e *Engine) handleCardEditSelect(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("❌ Картку не знайдено.")
		return nil
	}
	t.s.SetField(fieldCardID, strconv.FormatInt(opt.ID, 10))
	return e.advance(t, StateCardEditNumber)
}

func (e *Engine) handleCardEditCVV(t *turn) error {
	in, ok := e.cardInput(t)
	if !ok {
		return nil
	}

	cardID, err := strconv.ParseInt(t.s.Field(fieldCardID), 10, 64)
	if err != nil {
		return fmt.Errorf("card id lost: %w", err)
	}

	if err := e.backend.UpdateCard(t.ctx, cardID, in); err != nil {
		e.logger.Error("Failed to update card", zap.Int64("chat_id", t.in.ChatID), zap.Int64("card_id", cardID), zap.Error(err))
		t.note("❌ Не вдалося оновити картку.")
	} else {
		t.note("✅ Картку оновлено успішно.")
	}
	return e.unwind(t, StateCardMenu)
}

func (e *Engine) enterCardDeleteSelect(t *turn) error {
	return e.offerCards(t, "Оберіть картку для видалення:")
}

func (e *Engine) handleCardDeleteSelect(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("❌ Картку не знайдено.")
		return nil
	}

	if err := e.backend.DeleteCard(t.ctx, opt.ID); err != nil {
		e.logger.Error("Failed to delete card", zap.Int64("chat_id", t.in.ChatID), zap.Int64("card_id", opt.ID), zap.Error(err))
		t.note("❌ Не вдалося видалити картку.")
	} else {
		t.note("✅ Картку видалено.")
	}
	return e.unwind(t, StateCardMenu)
}
