package flow

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/Freeeeeet/parkflow_bot/internal/session"
	"go.uber.org/zap"
)

// Ключи Option.Meta
const (
	metaName   = "name"
	metaNumber = "number"
	metaRate   = "rate"
	metaBrand  = "brand"
	metaModel  = "model"
	metaPlate  = "plate"
	metaExp    = "exp"
)

func (t *turn) draft() (*session.BookingDraft, error) {
	if t.s.Draft == nil {
		return nil, ErrDraftIncomplete
	}
	return t.s.Draft, nil
}

func selectionComplete(d *session.BookingDraft) bool {
	return d.ParkingID != 0 && d.SpotID != 0 && d.CarID != 0 && d.CardID != 0
}

func (e *Engine) enterSelectCity(t *turn) error {
	cities, err := e.backend.Cities(t.ctx)
	if err != nil {
		return fmt.Errorf("list cities: %w", err)
	}
	if len(cities) == 0 {
		t.note("Немає доступних міст.")
		return errHalt
	}

	options := make([]session.Option, 0, len(cities))
	for _, c := range cities {
		options = append(options, session.Option{
			ID:    c.ID,
			Label: fmt.Sprintf("%d: %s", c.ID, c.Name),
		})
	}
	t.offer("Оберіть місто:", options)
	return nil
}

func (e *Engine) handleSelectCity(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Місто не знайдено.")
		return nil
	}
	t.s.Draft = &session.BookingDraft{CityID: opt.ID}
	return e.advance(t, StateSelectParking)
}

func (e *Engine) enterSelectParking(t *turn) error {
	d, err := t.draft()
	if err != nil || d.CityID == 0 {
		return ErrDraftIncomplete
	}

	parkings, err := e.backend.ParkingsByCity(t.ctx, d.CityID)
	if err != nil {
		return fmt.Errorf("list parkings: %w", err)
	}
	if len(parkings) == 0 {
		t.note("Немає паркінгів.")
		return errHalt
	}

	options := make([]session.Option, 0, len(parkings))
	for _, p := range parkings {
		options = append(options, session.Option{
			ID:    p.ID,
			Label: fmt.Sprintf("%d: %s", p.ID, p.Name),
			Meta:  map[string]string{metaName: p.Name},
		})
	}
	t.offer("Оберіть паркінг:", options)
	return nil
}

func (e *Engine) handleSelectParking(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Паркінг не знайдено.")
		return nil
	}
	d, err := t.draft()
	if err != nil {
		return err
	}
	d.ParkingID = opt.ID
	d.ParkingName = opt.Meta[metaName]
	return e.advance(t, StateSelectSpot)
}

func spotLabel(s model.Spot) string {
	return fmt.Sprintf("%d: Місце №%s (%s)", s.ID, s.Number, formatRate(s.HourlyRate))
}

func (e *Engine) enterSelectSpot(t *turn) error {
	d, err := t.draft()
	if err != nil || d.ParkingID == 0 {
		return ErrDraftIncomplete
	}

	spots, err := e.backend.AvailableSpots(t.ctx, d.ParkingID)
	if err != nil {
		return fmt.Errorf("list spots: %w", err)
	}
	if len(spots) == 0 {
		t.note("Немає вільних місць.")
		return errHalt
	}

	options := make([]session.Option, 0, len(spots))
	for _, s := range spots {
		meta := map[string]string{metaNumber: s.Number}
		if s.HourlyRate != nil {
			meta[metaRate] = formatFloat(*s.HourlyRate)
		}
		options = append(options, session.Option{ID: s.ID, Label: spotLabel(s), Meta: meta})
	}
	t.offer("Оберіть місце:", options)
	return nil
}

func (e *Engine) handleSelectSpot(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Місце не знайдено.")
		return nil
	}
	d, err := t.draft()
	if err != nil {
		return err
	}

	d.SpotID = opt.ID
	d.SpotNumber = opt.Meta[metaNumber]
	d.HourlyRate = nil
	if raw, ok := opt.Meta[metaRate]; ok {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parse hourly rate %q: %w", raw, err)
		}
		d.HourlyRate = &rate
	}
	return e.advance(t, StateSelectCar)
}

func (e *Engine) enterSelectCar(t *turn) error {
	cars, err := e.backend.Cars(t.ctx, t.s.Phone)
	if err != nil {
		return fmt.Errorf("list cars: %w", err)
	}
	if len(cars) == 0 {
		t.note("❌ У вас немає зареєстрованих авто.")
		return errHalt
	}

	options := make([]session.Option, 0, len(cars))
	for _, c := range cars {
		options = append(options, session.Option{
			ID:    c.ID,
			Label: fmt.Sprintf("%d: %s %s: %s", c.ID, c.Brand, c.Model, c.LicensePlate),
			Meta:  map[string]string{metaBrand: c.Brand, metaModel: c.Model, metaPlate: c.LicensePlate},
		})
	}
	t.offer("Оберіть авто:", options)
	return nil
}

func (e *Engine) handleSelectCar(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("Авто не знайдено.")
		return nil
	}
	d, err := t.draft()
	if err != nil {
		return err
	}
	d.CarID = opt.ID
	d.CarBrand = opt.Meta[metaBrand]
	d.CarModel = opt.Meta[metaModel]
	d.CarPlate = opt.Meta[metaPlate]
	return e.advance(t, StateSelectCard)
}

func (e *Engine) enterSelectCard(t *turn) error {
	cards, err := e.backend.Cards(t.ctx, t.s.Phone)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}
	if len(cards) == 0 {
		t.note("❌ У вас немає збережених карток.")
		return errHalt
	}

	options := make([]session.Option, 0, len(cards))
	for _, c := range cards {
		options = append(options, session.Option{
			ID:    c.ID,
			Label: fmt.Sprintf("%d: %s", c.ID, model.MaskCardNumber(c.Number)),
			Meta:  map[string]string{metaNumber: c.Number},
		})
	}
	t.offer("Оберіть картку:", options)
	return nil
}

func (e *Engine) handleSelectCard(t *turn) error {
	opt, err := t.pick()
	if err != nil {
		t.note("❌ Картку не знайдено.")
		return nil
	}
	d, err := t.draft()
	if err != nil {
		return err
	}
	d.CardID = opt.ID
	d.CardNumber = opt.Meta[metaNumber]
	return e.advance(t, StateSelectDuration)
}

func (e *Engine) enterSelectDuration(t *turn) error {
	options := make([]session.Option, 0, MaxDurationHours)
	for h := 1; h <= MaxDurationHours; h++ {
		options = append(options, session.Option{ID: int64(h), Label: durationLabel(h)})
	}
	t.offer("Оберіть тривалість бронювання:", options)
	return nil
}

func (e *Engine) handleSelectDuration(t *turn) error {
	hours, err := ParseDuration(t.text)
	if err != nil {
		t.note("❌ Некоректний формат тривалості. Введіть число, напр. 2 години")
		return nil
	}

	d, err := t.draft()
	if err != nil {
		return err
	}
	if !selectionComplete(d) {
		return ErrDraftIncomplete
	}
	if d.HourlyRate == nil {
		t.note("❌ Не вдалося отримати ціну за годину для обраного місця.")
		return nil
	}

	d.DurationHours = hours
	d.TotalPrice = TotalPrice(hours, *d.HourlyRate)
	d.OccupiedFrom = e.now().In(e.loc)
	return e.advance(t, StateConfirmBooking)
}

func (e *Engine) enterConfirmBooking(t *turn) error {
	d, err := t.draft()
	if err != nil {
		return err
	}
	if !selectionComplete(d) || d.DurationHours == 0 {
		return ErrDraftIncomplete
	}

	t.s.SetOptions(nil)
	t.say(fmt.Sprintf(
		"📍 Паркінг: %s\n"+
			"🅿️ Місце №%s\n"+
			"🚗 Авто: %s %s %s\n"+
			"💳 Картка: %s\n"+
			"⏳ Тривалість: %d год\n"+
			"💰 До сплати: %s грн\n\n"+
			"✅ Підтвердити бронювання?",
		d.ParkingName, d.SpotNumber,
		d.CarBrand, d.CarModel, d.CarPlate,
		model.MaskCardNumber(d.CardNumber),
		d.DurationHours, formatMoney(d.TotalPrice),
	), keyboard.ConfirmBooking())
	return nil
}

func (e *Engine) handleConfirmBooking(t *turn) error {
	switch t.text {
	case keyboard.BtnNo:
		t.s.Clear(true)
		t.say("❌ Бронювання скасовано.", keyboard.Main())
		return nil
	case keyboard.BtnYes:
		return e.book(t)
	default:
		t.note("❗ Оберіть: ✅ Так або ❌ Ні")
		return nil
	}
}

// book отправляет черновик в бэкенд; при ошибке диалог остаётся на подтверждении
func (e *Engine) book(t *turn) error {
	d, err := t.draft()
	if err != nil {
		return err
	}
	if !selectionComplete(d) || d.DurationHours == 0 {
		return ErrDraftIncomplete
	}

	req := model.BookingRequest{
		SpotID:        d.SpotID,
		CarID:         d.CarID,
		CardID:        d.CardID,
		DurationHours: d.DurationHours,
		TotalPrice:    d.TotalPrice,
		OccupiedFrom:  d.OccupiedFrom,
	}

	booking, err := e.backend.CreateBooking(t.ctx, t.s.Phone, req)
	if err != nil {
		e.logger.Error("Failed to create booking",
			zap.Int64("chat_id", t.in.ChatID),
			zap.Int64("spot_id", req.SpotID),
			zap.Error(err),
		)
		t.note("❌ Помилка під час бронювання.")
		return nil
	}

	total := booking.TotalPrice
	if total == 0 {
		total = d.TotalPrice
	}
	from := d.OccupiedFrom.In(e.loc)
	until := from.Add(timeHours(d.DurationHours))

	t.say(fmt.Sprintf(
		"✅ Бронювання створено!\n"+
			"🅿️ Місце №%s\n"+
			"🚗 Авто: %s %s\n"+
			"💰 Сума: %s грн\n"+
			"🕓 З: %s\n"+
			"🕓 По: %s\n"+
			"📄 ID: %d\n"+
			"📅 Створено: %s",
		d.SpotNumber, d.CarBrand, d.CarPlate, formatMoney(total),
		formatDateTime(from), formatDateTime(until),
		booking.ID, e.formatBackendTime(booking.CreatedAt),
	), keyboard.Main())

	t.s.Clear(true)
	return nil
}
