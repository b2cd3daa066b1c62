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
	fieldBrand = "brand"
	fieldModel = "model"
	fieldYear  = "year"
	fieldPlate = "plate"
)

func (e *Engine) enterCarMenu(t *turn) error {
	t.say("Оберіть дію з автомобілями:", keyboard.Cars())
	return nil
}

func (e *Engine) handleCarMenu(t *turn) error {
	switch t.text {
	case keyboard.BtnCarList:
		return e.listCars(t)
	case keyboard.BtnCarAdd:
		return e.advance(t, StateCarAddBrand)
	case keyboard.BtnCarEdit:
		return e.advance(t, StateCarEditSelect)
	case keyboard.BtnCarDelete:
		return e.advance(t, StateCarDeleteSelect)
	default:
		return e.unknown(t)
	}
}

func (e *Engine) listCars(t *turn) error {
	cars, err := e.backend.Cars(t.ctx, t.s.Phone)
	if err != nil {
		e.logger.Error("Failed to list cars", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Помилка при завантаженні авто.")
		return nil
	}
	if len(cars) == 0 {
		t.note("📭 У вас немає зареєстрованих авто.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🚘 Ваші авто:\n\n")
	for i, c := range cars {
		fmt.Fprintf(&sb, "%d. %s %s %d\n   Номер: %s\n\n", i+1, c.Brand, c.Model, c.Year, c.LicensePlate)
	}
	t.note(strings.TrimRight(sb.String(), "\n"))
	return nil
}

func (e *Engine) enterCarAddBrand(t *turn) error {
	t.say("Введіть марку авто:", keyboard.Back())
	return nil
}

func (e *Engine) enterCarAddModel(t *turn) error {
	t.say("Введіть модель авто:", keyboard.Back())
	return nil
}

func (e *Engine) enterCarAddYear(t *turn) error {
	t.say("Введіть рік випуску:", keyboard.Back())
	return nil
}

func (e *Engine) enterCarAddPlate(t *turn) error {
	t.say("Введіть номер авто (АА1234ВК):", keyboard.Back())
	return nil
}

func (e *Engine) enterCarEditBrand(t *turn) error {
	t.say("Введіть нову марку авто:", keyboard.Back())
	return nil
}

func (e *Engine) enterCarEditModel(t *turn) error {
	t.say("Введіть нову модель авто:", keyboard.Back())
	return nil
}

func (e *Engine) enterCarEditYear(t *turn) error {
	t.say("Введіть новий рік:", keyboard.Back())
	return nil
}

// handleCarBrand общий шаг добавления и изменения авто
func (e *Engine) handleCarBrand(t *turn) error {
	if !ValidBrand(t.text) {
		t.note("❌ Назва занадто коротка.")
		return nil
	}
	t.s.SetField(fieldBrand, t.text)
	if t.state() == StateCarEditBrand {
		return e.advance(t, StateCarEditModel)
	}
	return e.advance(t, StateCarAddModel)
}

func (e *Engine) handleCarModel(t *turn) error {
	if !ValidModel(t.text) {
		t.note("❌ Назва занадто коротка.")
		return nil
	}
	t.s.SetField(fieldModel, t.text)
	if t.state() == StateCarEditModel {
		return e.advance(t, StateCarEditYear)
	}
	return e.advance(t, StateCarAddYear)
}

func (e *Engine) handleCarYear(t *turn) error {
	year, ok := ParseYear(t.text, e.now())
	if !ok {
		t.note("❌ Невірний рік.")
		return nil
	}
	t.s.SetField(fieldYear, strconv.Itoa(year))
	return e.advance(t, StateCarAddPlate)
}

func (e *Engine) carInput(t *turn) (model.CarInput, error) {
	year, err := strconv.Atoi(t.s.Field(fieldYear))
	if err != nil {
		return model.CarInput{}, fmt.Errorf("car year lost: %w", err)
	}
	return model.CarInput{
		Brand: t.s.Field(fieldBrand),
		Model: t.s.Field(fieldModel),
		Year:  year,
	}, nil
}

func (e *Engine) handleCarAddPlate(t *turn) error {
	plate := NormalizePlate(t.text)
	if !ValidPlate(plate) {
		t.note("❌ Невірний формат.")
		return nil
	}

	in, err := e.carInput(t)
	if err != nil {
		return err
	}
	in.LicensePlate = plate

	err = e.backend.AddCar(t.ctx, t.s.Phone, in)
	switch {
	case err == nil:
		e.logger.Info("Car added", zap.Int64("chat_id", t.in.ChatID), zap.String("plate", plate))
		t.note(fmt.Sprintf("✅ Авто додано: %s", plate))
	case errors.Is(err, backend.ErrDuplicate):
		t.note("⚠️ Авто вже існує.")
	default:
		e.logger.Error("Failed to add car", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося додати авто.")
	}
	return e.unwind(t, StateCarMenu)
}

// offerCars показывает авто пользователя для выбора
func (e *Engine) offerCars(t *turn, text string) error {
	cars, err := e.backend.Cars(t.ctx, t.s.Phone)
	if err != nil {
		return fmt.Errorf("list cars: %w", err)
	}
	if len(cars) == 0 {
		t.note("📭 Авто не знайдено.")
		return errHalt
	}

	options := make([]session.Option, 0, len(cars))
	for _, c := range cars {
		options = append(options, session.Option{
			ID:    c.ID,
			Label: fmt.Sprintf("%s %s %d (%s)", c.Brand, c.Model, c.Year, c.LicensePlate),
			Meta:  map[string]string{metaPlate: c.LicensePlate},
		})
	}
	t.offer(text, options)
	return nil
}

func (e *Engine) enterCarEditSelect(t *turn) error {
	return e.offerCars(t, "Оберіть авто для зміни:")
}

func (e *Engine) handleCarEditSelect(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Авто не знайдено.")
		return nil
	}
	t.s.SetField(fieldPlate, opt.Meta[metaPlate])
	return e.advance(t, StateCarEditBrand)
}

func (e *Engine) handleCarEditYear(t *turn) error {
	year, ok := ParseYear(t.text, e.now())
	if !ok {
		t.note("❌ Введіть коректний рік.")
		return nil
	}
	t.s.SetField(fieldYear, strconv.Itoa(year))

	plate := t.s.Field(fieldPlate)
	if plate == "" {
		return fmt.Errorf("car plate lost in state %s", t.state())
	}
	in, err := e.carInput(t)
	if err != nil {
		return err
	}

	if err := e.backend.UpdateCar(t.ctx, t.s.Phone, plate, in); err != nil {
		e.logger.Error("Failed to update car", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося оновити авто.")
	} else {
		t.note("✅ Авто оновлено.")
	}
	return e.unwind(t, StateCarMenu)
}

func (e *Engine) enterCarDeleteSelect(t *turn) error {
	return e.offerCars(t, "Оберіть авто для видалення:")
}

func (e *Engine) handleCarDeleteSelect(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Авто не знайдено.")
		return nil
	}

	if err := e.backend.DeleteCar(t.ctx, t.s.Phone, opt.Meta[metaPlate]); err != nil {
		e.logger.Error("Failed to delete car", zap.Int64("chat_id", t.in.ChatID), zap.Error(err))
		t.note("❌ Не вдалося видалити авто.")
	} else {
		t.note("✅ Авто успішно видалено.")
	}
	return e.unwind(t, StateCarMenu)
}
