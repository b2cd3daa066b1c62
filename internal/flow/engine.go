// Package flow ведёт диалог с пользователем: конечный автомат состояний,
// навигация назад/домой, пошаговые формы и мастер бронирования.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/Freeeeeet/parkflow_bot/internal/session"
	"go.uber.org/zap"
)

// Backend операции REST-бэкенда, которые нужны диалогу
type Backend interface {
	Health(ctx context.Context) error

	Cities(ctx context.Context) ([]model.City, error)
	ParkingsByCity(ctx context.Context, cityID int64) ([]model.Parking, error)
	AvailableSpots(ctx context.Context, parkingID int64) ([]model.Spot, error)
	Spot(ctx context.Context, spotID int64) (*model.Spot, error)

	Cars(ctx context.Context, phone string) ([]model.Car, error)
	AddCar(ctx context.Context, phone string, car model.CarInput) error
	UpdateCar(ctx context.Context, phone, plate string, car model.CarInput) error
	DeleteCar(ctx context.Context, phone, plate string) error

	Cards(ctx context.Context, phone string) ([]model.Card, error)
	AddCard(ctx context.Context, phone string, card model.CardInput) error
	UpdateCard(ctx context.Context, cardID int64, card model.CardInput) error
	DeleteCard(ctx context.Context, cardID int64) error

	CreateBooking(ctx context.Context, phone string, req model.BookingRequest) (*model.Booking, error)
	Bookings(ctx context.Context, phone string) ([]model.Booking, error)

	RegisterUser(ctx context.Context, reg model.UserRegistration) (*model.User, error)
	UserByPhone(ctx context.Context, phone string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, phone string, upd model.UserUpdate) error
	DeleteUser(ctx context.Context, phone string) error

	SendFeedback(ctx context.Context, in model.FeedbackInput) (*model.Feedback, error)
	Feedback(ctx context.Context) ([]model.Feedback, error)
}

// Input входящее сообщение
type Input struct {
	ChatID  int64
	UserID  int64
	Text    string
	Contact string // номер телефона из отправленного контакта
}

// Reply исходящее сообщение.
// Keyboard == nil и RemoveKeyboard == false оставляют текущую клавиатуру.
type Reply struct {
	Text           string
	Keyboard       *keyboard.Keyboard
	RemoveKeyboard bool
}

// Engine обрабатывает сообщения, храня состояние диалога в сессиях
type Engine struct {
	backend  Backend
	sessions *session.Manager
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	states   map[State]stateDef
}

// Option настройка Engine
type Option func(*Engine)

// WithLocation задаёт часовой пояс для отображения времени
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine создаёт движок диалога
func NewEngine(backend Backend, sessions *session.Manager, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.states = e.buildStates()
	return e
}

// Handle обрабатывает одно сообщение. Сообщения одного чата обрабатываются строго по очереди.
func (e *Engine) Handle(ctx context.Context, in Input) ([]Reply, error) {
	var replies []Reply
	err := e.sessions.Do(ctx, in.ChatID, func(s *session.Session) error {
		t := &turn{
			ctx:  ctx,
			s:    s,
			in:   in,
			text: strings.TrimSpace(in.Text),
		}
		e.dispatch(t)
		replies = t.replies
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("handle chat %d: %w", in.ChatID, err)
	}
	return replies, nil
}

func (e *Engine) dispatch(t *turn) {
	switch {
	case t.in.Contact != "":
		e.handleContact(t)
		return
	case t.text == cmdStart || t.text == keyboard.BtnRetry:
		e.start(t)
		return
	case t.text == keyboard.BtnHome:
		e.goHome(t)
		return
	}

	st := t.state()
	def, ok := e.states[st]
	if !ok {
		e.fail(t, fmt.Errorf("%w: unknown state %q", ErrTransition, st))
		return
	}

	if t.text == keyboard.BtnBack {
		e.goBack(t)
		return
	}

	// Пункты главного меню работают из любого меню, но не на шагах ввода
	if !def.input {
		if target, ok := mainCommands[t.text]; ok {
			e.jump(t, target)
			return
		}
	}

	if err := def.handle(t); err != nil {
		e.fail(t, err)
	}
}

// healthy проверяет бэкенд; при недоступности показывает кнопку повтора
func (e *Engine) healthy(t *turn, text string) bool {
	if err := e.backend.Health(t.ctx); err != nil {
		e.logger.Warn("Backend health check failed",
			zap.Int64("chat_id", t.in.ChatID),
			zap.String("state", t.s.State),
			zap.Error(err),
		)
		t.say(text, keyboard.Retry())
		return false
	}
	return true
}

func (e *Engine) unknown(t *turn) error {
	e.logger.Warn("Unknown message",
		zap.Int64("chat_id", t.in.ChatID),
		zap.String("state", t.s.State),
		zap.String("text", t.text),
	)
	if t.state() == StateIdle && t.s.Phone != "" {
		t.say(textUnknown, keyboard.Main())
		return nil
	}
	t.note(textUnknown)
	return nil
}

// turn контекст обработки одного сообщения
type turn struct {
	ctx     context.Context
	s       *session.Session
	in      Input
	text    string
	replies []Reply
}

func (t *turn) state() State {
	return State(t.s.State)
}

// say отправляет текст с новой клавиатурой
func (t *turn) say(text string, kb keyboard.Keyboard) {
	t.replies = append(t.replies, Reply{Text: text, Keyboard: &kb})
}

// note отправляет текст, не трогая клавиатуру
func (t *turn) note(text string) {
	t.replies = append(t.replies, Reply{Text: text})
}

// prompt отправляет текст и убирает клавиатуру
func (t *turn) prompt(text string) {
	t.replies = append(t.replies, Reply{Text: text, RemoveKeyboard: true})
}

// offer запоминает пункты шага и показывает их кнопками
func (t *turn) offer(text string, options []session.Option) {
	labels := make([]string, 0, len(options))
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	t.s.SetOptions(options)
	t.say(text, keyboard.Build(labels))
}

// pick ищет выбранный пункт среди показанных
func (t *turn) pick() (session.Option, error) {
	opt, ok := t.s.FindOption(t.text)
	if !ok {
		return session.Option{}, fmt.Errorf("%w: %q", ErrNoOption, t.text)
	}
	return opt, nil
}
