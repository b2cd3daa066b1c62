package flow

import (
	"testing"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCars_Add(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)
	h.send(keyboard.BtnCarAdd)
	require.Equal(t, StateCarAddBrand, h.state())

	steps := []struct {
		text string
		want State
	}{
		{text: "T", want: StateCarAddBrand},
		{text: "Toyota", want: StateCarAddModel},
		{text: "Camry", want: StateCarAddYear},
		{text: "1800", want: StateCarAddYear},
		{text: "2020", want: StateCarAddPlate},
		{text: "AB12", want: StateCarAddPlate},
	}
	for _, step := range steps {
		h.send(step.text)
		require.Equal(t, step.want, h.state(), "after %q", step.text)
	}

	replies := h.send("аа1234вк")
	require.Len(t, h.backend.addedCars, 1)
	assert.Equal(t, model.CarInput{Brand: "Toyota", Model: "Camry", Year: 2020, LicensePlate: "АА1234ВК"}, h.backend.addedCars[0])
	assert.Equal(t, "✅ Авто додано: АА1234ВК", replies[0].Text)
	assert.Equal(t, keyboard.Cars().Labels(), lastKeyboard(replies).Labels())

	s := h.session()
	assert.Equal(t, StateCarMenu, State(s.State))
	assert.Equal(t, []string{string(StateIdle)}, s.History)
	assert.Empty(t, s.Fields)
}

func TestCars_AddDuplicate(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)
	h.send(keyboard.BtnCarAdd)
	h.send("Toyota")
	h.send("Corolla")
	h.send("2018")
	h.backend.errs["AddCar"] = backend.ErrDuplicate

	replies := h.send("AA1234BK")
	assert.Equal(t, "⚠️ Авто вже існує.", replies[0].Text)
	assert.Equal(t, StateCarMenu, h.state())
}

func TestCars_MainMenuButtonsAreInputOnTypingSteps(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)
	h.send(keyboard.BtnCarAdd)

	h.send(keyboard.BtnCards)
	assert.Equal(t, StateCarAddModel, h.state())
	assert.Equal(t, keyboard.BtnCards, h.session().Field(fieldBrand))
}

func TestCars_Edit(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)

	replies := h.send(keyboard.BtnCarEdit)
	require.Equal(t, StateCarEditSelect, h.state())
	assert.Contains(t, lastKeyboard(replies).Labels(), "Toyota Corolla 2018 (AA1234BK)")

	h.send("Toyota Corolla 2018 (AA1234BK)")
	require.Equal(t, StateCarEditBrand, h.state())
	h.send("Honda")
	require.Equal(t, StateCarEditModel, h.state())
	h.send("Civic")
	require.Equal(t, StateCarEditYear, h.state())

	replies = h.send("2019")
	assert.Equal(t, "✅ Авто оновлено.", replies[0].Text)
	assert.Equal(t, model.CarInput{Brand: "Honda", Model: "Civic", Year: 2019}, h.backend.updatedCars["AA1234BK"])

	s := h.session()
	assert.Equal(t, StateCarMenu, State(s.State))
	assert.Equal(t, []string{string(StateIdle)}, s.History)
}

func TestCars_Delete(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)
	h.send(keyboard.BtnCarDelete)

	replies := h.send("Toyota Corolla 2018 (AA1234BK)")
	assert.Equal(t, "✅ Авто успішно видалено.", replies[0].Text)
	assert.Equal(t, []string{"AA1234BK"}, h.backend.deletedCars)
	assert.Equal(t, StateCarMenu, h.state())
}

func TestCars_ListAndEmpty(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.send(keyboard.BtnCars)

	replies := h.send(keyboard.BtnCarList)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "1. Toyota Corolla 2018")
	assert.Contains(t, replies[0].Text, "Номер: AA1234BK")
	assert.Equal(t, StateCarMenu, h.state())

	h.backend.cars = nil
	replies = h.send(keyboard.BtnCarEdit)
	assert.Equal(t, "📭 Авто не знайдено.", replies[0].Text)
	assert.Equal(t, StateCarMenu, h.state())
}
