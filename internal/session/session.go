package session

import (
	"maps"
	"slices"
	"time"
)

// MaxHistory ограничивает глубину стека навигации
const MaxHistory = 32

// Option пункт меню, показанный пользователю: стабильный ID и подпись кнопки
type Option struct {
	ID    int64             `json:"id"`
	Label string            `json:"label"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// BookingDraft черновик бронирования, собираемый по шагам мастера
type BookingDraft struct {
	CityID        int64     `json:"city_id,omitempty"`
	ParkingID     int64     `json:"parking_id,omitempty"`
	ParkingName   string    `json:"parking_name,omitempty"`
	SpotID        int64     `json:"spot_id,omitempty"`
	SpotNumber    string    `json:"spot_number,omitempty"`
	HourlyRate    *float64  `json:"hourly_rate,omitempty"`
	CarID         int64     `json:"car_id,omitempty"`
	CarBrand      string    `json:"car_brand,omitempty"`
	CarModel      string    `json:"car_model,omitempty"`
	CarPlate      string    `json:"car_plate,omitempty"`
	CardID        int64     `json:"card_id,omitempty"`
	CardNumber    string    `json:"card_number,omitempty"`
	DurationHours int       `json:"duration_hours,omitempty"`
	TotalPrice    float64   `json:"total_price,omitempty"`
	OccupiedFrom  time.Time `json:"occupied_from,omitempty"`
}

// Session состояние диалога с одним чатом
type Session struct {
	ChatID    int64             `json:"chat_id"`
	Phone     string            `json:"phone_number,omitempty"`
	State     string            `json:"state,omitempty"`
	History   []string          `json:"history,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Options   []Option          `json:"options,omitempty"`
	Draft     *BookingDraft     `json:"draft,omitempty"`
	Page      int               `json:"page,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New создаёт пустую сессию
func New(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		Fields: make(map[string]string),
	}
}

// Field возвращает собранное поле формы
func (s *Session) Field(key string) string {
	return s.Fields[key]
}

// SetField сохраняет поле формы
func (s *Session) SetField(key, value string) {
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[key] = value
}

// Merge добавляет поля формы поверх существующих
func (s *Session) Merge(fields map[string]string) {
	for k, v := range fields {
		s.SetField(k, v)
	}
}

// Clear сбрасывает диалог; телефон сохраняется при keepPhone
func (s *Session) Clear(keepPhone bool) {
	phone := s.Phone
	*s = Session{
		ChatID:    s.ChatID,
		Fields:    make(map[string]string),
		UpdatedAt: s.UpdatedAt,
	}
	if keepPhone {
		s.Phone = phone
	}
}

// HasDialog сообщает, есть ли в сессии незавершённый диалог
func (s *Session) HasDialog() bool {
	return s.State != "" || len(s.History) > 0 || len(s.Fields) > 0 ||
		len(s.Options) > 0 || s.Draft != nil || s.Page != 0
}

// PushHistory кладёт состояние в стек; самые старые записи вытесняются
func (s *Session) PushHistory(state string) {
	s.History = append(s.History, state)
	if len(s.History) > MaxHistory {
		s.History = slices.Clone(s.History[len(s.History)-MaxHistory:])
	}
}

// PopHistory снимает последнее состояние со стека
func (s *Session) PopHistory() (string, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return last, true
}

// SetOptions запоминает пункты, показанные для текущего шага
func (s *Session) SetOptions(options []Option) {
	s.Options = options
}

// FindOption ищет пункт по точному совпадению подписи
func (s *Session) FindOption(label string) (Option, bool) {
	for _, o := range s.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Clone возвращает глубокую копию
func (s *Session) Clone() *Session {
	c := *s
	c.History = slices.Clone(s.History)
	c.Options = slices.Clone(s.Options)
	for i := range c.Options {
		c.Options[i].Meta = maps.Clone(c.Options[i].Meta)
	}
	c.Fields = maps.Clone(s.Fields)
	if c.Fields == nil {
		c.Fields = make(map[string]string)
	}
	if s.Draft != nil {
		d := *s.Draft
		if s.Draft.HourlyRate != nil {
			rate := *s.Draft.HourlyRate
			d.HourlyRate = &rate
		}
		c.Draft = &d
	}
	return &c
}
