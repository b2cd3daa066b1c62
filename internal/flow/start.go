package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"go.uber.org/zap"
)

const (
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	// номер из контакта до завершения регистрации; в Session.Phone попадает
	// только номер известного бэкенду пользователя
	fieldPhone = "phone_number"
)

// start обрабатывает /start и кнопку повтора
func (e *Engine) start(t *turn) {
	e.logger.Info("Start requested", zap.Int64("chat_id", t.in.ChatID), zap.Int64("user_id", t.in.UserID))

	if !e.healthy(t, "⚠️ Сервер тимчасово недоступний.\nБудь ласка, спробуйте пізніше.") {
		return
	}

	t.s.Clear(true)
	t.say("👋 Вітаємо у ParkFlowUABot!\nБудь ласка, надайте свій номер телефону:", keyboard.ShareContact())
}

// handleContact узнаёт пользователя по номеру или начинает регистрацию
func (e *Engine) handleContact(t *turn) {
	phone := strings.TrimSpace(t.in.Contact)

	e.logger.Info("Contact received", zap.Int64("chat_id", t.in.ChatID), zap.String("phone", phone))

	if !e.healthy(t, textUnavailable) {
		return
	}

	user, err := e.backend.UserByPhone(t.ctx, phone)
	switch {
	case err == nil:
		e.logger.Info("User recognized", zap.Int64("chat_id", t.in.ChatID), zap.Int64("user_id", user.ID))
		t.s.Clear(false)
		t.s.Phone = phone
		t.say(fmt.Sprintf("Вас розпізнано як %s!", user.FirstName), keyboard.Main())

	case errors.Is(err, backend.ErrNotFound):
		e.logger.Info("User not found, starting registration", zap.Int64("chat_id", t.in.ChatID))
		t.s.Clear(false)
		t.s.SetField(fieldPhone, phone)
		if err := e.advance(t, StateRegFirstName); err != nil {
			e.fail(t, err)
		}

	default:
		e.logger.Error("Failed to look up user", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.say(textUnavailable, keyboard.Retry())
	}
}

func (e *Engine) enterRegFirstName(t *turn) error {
	t.prompt("Введіть ваше ім’я:")
	return nil
}

func (e *Engine) handleRegFirstName(t *turn) error {
	if t.text == "" {
		t.note("❗ Ім’я не може бути порожнім.")
		return nil
	}
	t.s.SetField(fieldFirstName, t.text)
	return e.advance(t, StateRegLastName)
}

func (e *Engine) enterRegLastName(t *turn) error {
	t.say("Тепер введіть ваше прізвище:", keyboard.Back())
	return nil
}

func (e *Engine) handleRegLastName(t *turn) error {
	if t.text == "" {
		t.note("❗ Прізвище не може бути порожнім.")
		return nil
	}
	t.s.SetField(fieldLastName, t.text)
	return e.advance(t, StateRegEmail)
}

func (e *Engine) enterRegEmail(t *turn) error {
	t.say("Якщо бажаєте, введіть email або натисніть 'пропустити':", keyboard.SkipEmail())
	return nil
}

func (e *Engine) handleRegEmail(t *turn) error {
	var email *string
	if !strings.EqualFold(t.text, keyboard.BtnSkip) {
		if !ValidEmail(t.text) {
			t.note("❗ Невірний формат email. Спробуйте ще раз.")
			return nil
		}
		email = &t.text
	}
	return e.finishRegistration(t, email)
}

func (e *Engine) finishRegistration(t *turn, email *string) error {
	if !e.healthy(t, textUnavailable) {
		return nil
	}

	reg := model.UserRegistration{
		TelegramID:  t.in.UserID,
		FirstName:   t.s.Field(fieldFirstName),
		LastName:    t.s.Field(fieldLastName),
		PhoneNumber: t.s.Field(fieldPhone),
		Email:       email,
	}

	if _, err := e.backend.RegisterUser(t.ctx, reg); err != nil {
		e.logger.Error("Failed to register user", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		if errors.Is(err, backend.ErrUnavailable) {
			t.note("❌ API недоступне. Спробуйте пізніше.")
		} else {
			t.note("❌ Сталася помилка під час реєстрації. Спробуйте пізніше.")
		}
		return nil
	}

	e.logger.Info("User registered", zap.Int64("chat_id", t.in.ChatID), zap.Int64("telegram_id", reg.TelegramID))

	shownEmail := "не вказано"
	if email != nil {
		shownEmail = *email
	}
	t.note(fmt.Sprintf("✅ Реєстрація завершена!\n👤 %s %s\n📞 %s\n✉️ %s",
		reg.FirstName, reg.LastName, reg.PhoneNumber, shownEmail))
	t.say("Оберіть опцію з меню нижче:", keyboard.Main())

	t.s.Clear(false)
	t.s.Phone = reg.PhoneNumber
	return nil
}
