package flow

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"go.uber.org/zap"
)

const textSettingsUnavailable = "⚠️ Сервер тимчасово недоступний. Спробуйте пізніше."

func (e *Engine) enterSettingsMenu(t *turn) error {
	t.say("Оберіть дію в меню налаштувань:", keyboard.Settings())
	return nil
}

func (e *Engine) handleSettingsMenu(t *turn) error {
	switch t.text {
	case keyboard.BtnProfile:
		return e.showProfile(t)
	case keyboard.BtnChangeName:
		return e.advance(t, StateSettingsName)
	case keyboard.BtnChangeEmail:
		return e.advance(t, StateSettingsEmail)
	case keyboard.BtnDeleteProfile:
		return e.advance(t, StateSettingsDeleteConfirm)
	default:
		return e.unknown(t)
	}
}

func (e *Engine) showProfile(t *turn) error {
	if !e.healthy(t, textSettingsUnavailable) {
		return nil
	}

	user, err := e.backend.UserByPhone(t.ctx, t.s.Phone)
	if errors.Is(err, backend.ErrNotFound) {
		t.note("❌ Користувача не знайдено.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	email := user.Email
	if email == "" {
		email = "не вказано"
	}
	t.note(fmt.Sprintf("👤 Ваш профіль:\nІм'я: %s\nТелефон: %s\nEmail: %s",
		user.FullName(), user.PhoneNumber, email))
	return nil
}

func (e *Engine) enterSettingsName(t *turn) error {
	t.say("Введіть нові ім’я та прізвище через пробіл:", keyboard.Back())
	return nil
}

func (e *Engine) handleSettingsName(t *turn) error {
	first, last, ok := SplitFullName(t.text)
	if !ok {
		t.note("❗ Введіть і ім’я, і прізвище через пробіл (наприклад: Іван Петренко).")
		return nil
	}
	if !e.healthy(t, textSettingsUnavailable) {
		return nil
	}

	if err := e.backend.UpdateUser(t.ctx, t.s.Phone, model.UserUpdate{FirstName: first, LastName: last}); err != nil {
		e.logger.Error("Failed to update name", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося оновити. Спробуйте пізніше.")
	} else {
		t.note("✅ Ім’я та прізвище оновлено.")
	}
	return e.unwind(t, StateSettingsMenu)
}

func (e *Engine) enterSettingsEmail(t *turn) error {
	t.say("Введіть новий email:", keyboard.Back())
	return nil
}

func (e *Engine) handleSettingsEmail(t *turn) error {
	if !ValidEmail(t.text) {
		t.note("❗ Невірний формат email. Спробуйте ще раз.")
		return nil
	}
	if !e.healthy(t, textSettingsUnavailable) {
		return nil
	}

	if err := e.backend.UpdateUser(t.ctx, t.s.Phone, model.UserUpdate{Email: t.text}); err != nil {
		e.logger.Error("Failed to update email", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося оновити email. Спробуйте пізніше.")
	} else {
		t.note("✅ Email оновлено.")
	}
	return e.unwind(t, StateSettingsMenu)
}

func (e *Engine) enterSettingsDeleteConfirm(t *turn) error {
	t.say("❗ Ви впевнені, що хочете видалити свій профіль?", keyboard.ConfirmDelete())
	return nil
}

func (e *Engine) handleSettingsDeleteConfirm(t *turn) error {
	switch t.text {
	case keyboard.BtnDeleteNo:
		t.note("Скасовано.")
		return e.unwind(t, StateSettingsMenu)
	case keyboard.BtnDeleteYes:
		return e.deleteProfile(t)
	default:
		t.note("❗ Оберіть: ✅ Так, видалити або ❌ Ні, скасувати")
		return nil
	}
}

// deleteProfile единственный переход, после которого телефон забывается
func (e *Engine) deleteProfile(t *turn) error {
	if !e.healthy(t, textSettingsUnavailable) {
		return nil
	}

	if err := e.backend.DeleteUser(t.ctx, t.s.Phone); err != nil {
		e.logger.Error("Failed to delete profile", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося видалити профіль. Спробуйте пізніше.")
		return nil
	}

	e.logger.Info("Profile deleted", zap.Int64("chat_id", t.in.ChatID))
	t.s.Clear(false)
	t.say("✅ Ваш профіль успішно видалено. Для повторної реєстрації введіть /start.", keyboard.ShareContact())
	return nil
}
