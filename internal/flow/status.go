package flow

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"go.uber.org/zap"
)

var statusLabels = map[model.BookingStatus]string{
	model.BookingStatusPaid:     "✅ Оплачено",
	model.BookingStatusPending:  "🕒 Очікує оплату",
	model.BookingStatusRejected: "❌ Відхилено",
}

func (e *Engine) enterBookingList(t *turn) error {
	return e.renderBookings(t, 1)
}

func (e *Engine) handleBookingList(t *turn) error {
	switch t.text {
	case keyboard.BtnPrev, keyboard.BtnNext:
		err := e.renderBookings(t, t.s.Page, t.text)
		if errors.Is(err, errHalt) {
			t.s.Clear(true)
		}
		return err
	default:
		return e.unknown(t)
	}
}

// renderBookings заново загружает бронирования и показывает страницу.
// move, если передан, сдвигает текущую страницу.
func (e *Engine) renderBookings(t *turn, page int, move ...string) error {
	bookings, err := e.backend.Bookings(t.ctx, t.s.Phone)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}
	if len(bookings) == 0 {
		t.say("❌ У вас немає бронювань.", keyboard.Main())
		return errHalt
	}

	e.sortBookings(bookings)

	total := TotalPages(len(bookings))
	page = ClampPage(page, total)
	if len(move) > 0 {
		page = turnPage(page, total, move[0])
	}
	start, end := PageBounds(page, len(bookings))

	// Места кэшируются только на время одной отрисовки
	spots := make(map[int64]*model.Spot)
	lines := make([]string, 0, end-start)
	for _, b := range bookings[start:end] {
		spot, cached := spots[b.SpotID]
		if !cached {
			spot, err = e.backend.Spot(t.ctx, b.SpotID)
			if err != nil {
				e.logger.Warn("Failed to load spot for booking",
					zap.Int64("booking_id", b.ID),
					zap.Int64("spot_id", b.SpotID),
					zap.Error(err),
				)
				spot = nil
			}
			spots[b.SpotID] = spot
		}
		lines = append(lines, e.formatBooking(b, spot))
	}

	t.s.Page = page
	t.say(fmt.Sprintf("📄 Сторінка %d/%d\n\n%s", page, total, strings.Join(lines, "\n\n")),
		keyboard.Pagination(page, total))
	return nil
}

// sortBookings сортирует от новых к старым
func (e *Engine) sortBookings(bookings []model.Booking) {
	slices.SortStableFunc(bookings, func(a, b model.Booking) int {
		ta, errA := model.ParseTime(a.CreatedAt, e.loc)
		tb, errB := model.ParseTime(b.CreatedAt, e.loc)
		if errA == nil && errB == nil {
			return tb.Compare(ta)
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
}

func (e *Engine) formatBooking(b model.Booking, spot *model.Spot) string {
	if spot == nil {
		return fmt.Sprintf("❌ Некоректне бронювання ID %d", b.ID)
	}

	var brand, plate, lastFour string
	if b.Car != nil {
		brand, plate = b.Car.Brand, b.Car.LicensePlate
	}
	if b.Card != nil {
		lastFour = model.LastFour(b.Card.Number)
	}

	status, ok := statusLabels[b.Status]
	if !ok {
		status = "❔ Статус?"
	}

	return fmt.Sprintf(
		"📄 ID: %d\n"+
			"🅿️ Місце №%s\n"+
			"🚗 Авто: %s %s\n"+
			"💳 Картка: ****%s\n"+
			"⏳ %s год\n"+
			"🕓 З: %s\n"+
			"🕓 По: %s\n"+
			"💰 Сума: %s грн\n"+
			"%s",
		b.ID, spot.Number, brand, plate, lastFour,
		formatFloat(b.DurationHours),
		e.formatBackendTime(spot.OccupiedFrom),
		e.formatBackendTime(spot.OccupiedUntil),
		formatMoney(b.TotalPrice),
		status,
	)
}
