package flow

import (
	"testing"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Profile(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnSettings)

	replies := h.send(keyboard.BtnProfile)
	require.Len(t, replies, 1)
	assert.Equal(t, "👤 Ваш профіль:\nІм'я: Іван Петренко\nТелефон: +380501234567\nEmail: не вказано", replies[0].Text)
	assert.Equal(t, StateSettingsMenu, h.state())

	delete(h.backend.users, testPhone)
	replies = h.send(keyboard.BtnProfile)
	assert.Equal(t, "❌ Користувача не знайдено.", replies[0].Text)
	assert.Equal(t, StateSettingsMenu, h.state())
}

func TestSettings_ChangeName(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnSettings)
	h.send(keyboard.BtnChangeName)
	require.Equal(t, StateSettingsName, h.state())

	h.send("Олег")
	assert.Equal(t, StateSettingsName, h.state())
	assert.Empty(t, h.backend.userUpdates)

	replies := h.send("Олег Іваненко-Петренко")
	assert.Equal(t, "✅ Ім’я та прізвище оновлено.", replies[0].Text)
	require.Len(t, h.backend.userUpdates, 1)
	assert.Equal(t, model.UserUpdate{FirstName: "Олег", LastName: "Іваненко-Петренко"}, h.backend.userUpdates[0])

	s := h.session()
	assert.Equal(t, StateSettingsMenu, State(s.State))
	assert.Equal(t, []string{string(StateIdle)}, s.History)
}

func TestSettings_ChangeEmail(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnSettings)
	h.send(keyboard.BtnChangeEmail)

	h.send("ivan")
	assert.Equal(t, StateSettingsEmail, h.state())

	h.send("ivan@example.com")
	require.Len(t, h.backend.userUpdates, 1)
	assert.Equal(t, "ivan@example.com", h.backend.userUpdates[0].Email)
	assert.Equal(t, StateSettingsMenu, h.state())
}

func TestSettings_DeleteProfile(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnSettings)

	h.send(keyboard.BtnDeleteProfile)
	require.Equal(t, StateSettingsDeleteConfirm, h.state())
	h.send(keyboard.BtnDeleteNo)
	require.Equal(t, StateSettingsMenu, h.state())
	assert.Empty(t, h.backend.deletedUsers)

	h.send(keyboard.BtnDeleteProfile)
	h.backend.healthErr = backend.ErrUnavailable
	replies := h.send(keyboard.BtnDeleteYes)
	assert.Equal(t, []string{keyboard.BtnRetry}, replies[0].Keyboard.Labels())
	assert.Equal(t, StateSettingsDeleteConfirm, h.state())
	assert.Equal(t, testPhone, h.session().Phone)

	h.backend.healthErr = nil
	replies = h.send(keyboard.BtnDeleteYes)
	require.Len(t, replies, 1)
	assert.Equal(t, []string{testPhone}, h.backend.deletedUsers)
	assert.True(t, replies[0].Keyboard.Rows[0][0].RequestContact)

	s := h.session()
	assert.Empty(t, s.Phone)
	assert.Equal(t, StateIdle, State(s.State))
	assert.Empty(t, s.History)

	replies = h.send(keyboard.BtnCheck)
	assert.Equal(t, textNoPhone, replies[0].Text)
}
