package flow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/parkflow_bot/internal/backend"
	"github.com/Freeeeeet/parkflow_bot/internal/keyboard"
	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"github.com/Freeeeeet/parkflow_bot/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testChatID = int64(100)
	testUserID = int64(200)
	testPhone  = "+380501234567"
)

// fakeBackend отвечает данными из полей и записывает вызовы
type fakeBackend struct {
	healthErr error
	errs      map[string]error

	cities    []model.City
	parkings  map[int64][]model.Parking
	spots     map[int64][]model.Spot
	spotByID  map[int64]*model.Spot
	cars      []model.Car
	cards     []model.Card
	bookings  []model.Booking
	users     map[string]*model.User
	usersByID map[int64]*model.User
	feedback  []model.Feedback

	calls map[string]int

	registered   []model.UserRegistration
	bookingReqs  []model.BookingRequest
	addedCars    []model.CarInput
	updatedCars  map[string]model.CarInput
	deletedCars  []string
	addedCards   []model.CardInput
	updatedCards map[int64]model.CardInput
	deletedCards []int64
	userUpdates  []model.UserUpdate
	deletedUsers []string
	sentFeedback []model.FeedbackInput
}

func newFakeBackend() *fakeBackend {
	rate := 25.5
	return &fakeBackend{
		errs: make(map[string]error),
		cities: []model.City{
			{ID: 1, Name: "Київ"},
			{ID: 2, Name: "Львів"},
		},
		parkings: map[int64][]model.Parking{
			1: {{ID: 10, CityID: 1, Name: "Центр"}, {ID: 11, CityID: 1, Name: "Поділ"}},
			2: {{ID: 20, CityID: 2, Name: "Ринок"}},
		},
		spots: map[int64][]model.Spot{
			10: {{ID: 100, ParkingID: 10, Number: "A1", HourlyRate: &rate}, {ID: 101, ParkingID: 10, Number: "A2"}},
		},
		spotByID: make(map[int64]*model.Spot),
		cars: []model.Car{
			{ID: 5, Brand: "Toyota", Model: "Corolla", Year: 2018, LicensePlate: "AA1234BK"},
		},
		cards: []model.Card{
			{ID: 7, Number: "1234567812345678", ExpDate: "12/27"},
		},
		users: map[string]*model.User{
			testPhone: {ID: 1, FirstName: "Іван", LastName: "Петренко", PhoneNumber: testPhone},
		},
		usersByID:    make(map[int64]*model.User),
		calls:        make(map[string]int),
		updatedCars:  make(map[string]model.CarInput),
		updatedCards: make(map[int64]model.CardInput),
	}
}

func (f *fakeBackend) hit(method string) error {
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeBackend) Health(context.Context) error {
	f.calls["Health"]++
	return f.healthErr
}

func (f *fakeBackend) Cities(context.Context) ([]model.City, error) {
	if err := f.hit("Cities"); err != nil {
		return nil, err
	}
	return f.cities, nil
}

func (f *fakeBackend) ParkingsByCity(_ context.Context, cityID int64) ([]model.Parking, error) {
	if err := f.hit("ParkingsByCity"); err != nil {
		return nil, err
	}
	return f.parkings[cityID], nil
}

func (f *fakeBackend) AvailableSpots(_ context.Context, parkingID int64) ([]model.Spot, error) {
	if err := f.hit("AvailableSpots"); err != nil {
		return nil, err
	}
	return f.spots[parkingID], nil
}

func (f *fakeBackend) Spot(_ context.Context, spotID int64) (*model.Spot, error) {
	if err := f.hit("Spot"); err != nil {
		return nil, err
	}
	s, ok := f.spotByID[spotID]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return s, nil
}

func (f *fakeBackend) Cars(context.Context, string) ([]model.Car, error) {
	if err := f.hit("Cars"); err != nil {
		return nil, err
	}
	return f.cars, nil
}

func (f *fakeBackend) AddCar(_ context.Context, _ string, car model.CarInput) error {
	if err := f.hit("AddCar"); err != nil {
		return err
	}
	f.addedCars = append(f.addedCars, car)
	return nil
}

func (f *fakeBackend) UpdateCar(_ context.Context, _ string, plate string, car model.CarInput) error {
	if err := f.hit("UpdateCar"); err != nil {
		return err
	}
	f.updatedCars[plate] = car
	return nil
}

func (f *fakeBackend) DeleteCar(_ context.Context, _ string, plate string) error {
	if err := f.hit("DeleteCar"); err != nil {
		return err
	}
	f.deletedCars = append(f.deletedCars, plate)
	return nil
}

func (f *fakeBackend) Cards(context.Context, string) ([]model.Card, error) {
	if err := f.hit("Cards"); err != nil {
		return nil, err
	}
	return f.cards, nil
}

func (f *fakeBackend) AddCard(_ context.Context, _ string, card model.CardInput) error {
	if err := f.hit("AddCard"); err != nil {
		return err
	}
	f.addedCards = append(f.addedCards, card)
	return nil
}

func (f *fakeBackend) UpdateCard(_ context.Context, cardID int64, card model.CardInput) error {
	if err := f.hit("UpdateCard"); err != nil {
		return err
	}
	f.updatedCards[cardID] = card
	return nil
}

func (f *fakeBackend) DeleteCard(_ context.Context, cardID int64) error {
	if err := f.hit("DeleteCard"); err != nil {
		return err
	}
	f.deletedCards = append(f.deletedCards, cardID)
	return nil
}

func (f *fakeBackend) CreateBooking(_ context.Context, _ string, req model.BookingRequest) (*model.Booking, error) {
	if err := f.hit("CreateBooking"); err != nil {
		return nil, err
	}
	f.bookingReqs = append(f.bookingReqs, req)
	return &model.Booking{ID: 99, TotalPrice: req.TotalPrice, CreatedAt: "2025-05-01T10:00:00"}, nil
}

func (f *fakeBackend) Bookings(context.Context, string) ([]model.Booking, error) {
	if err := f.hit("Bookings"); err != nil {
		return nil, err
	}
	return append([]model.Booking(nil), f.bookings...), nil
}

func (f *fakeBackend) RegisterUser(_ context.Context, reg model.UserRegistration) (*model.User, error) {
	if err := f.hit("RegisterUser"); err != nil {
		return nil, err
	}
	f.registered = append(f.registered, reg)
	return &model.User{ID: 2, FirstName: reg.FirstName, LastName: reg.LastName, PhoneNumber: reg.PhoneNumber}, nil
}

func (f *fakeBackend) UserByPhone(_ context.Context, phone string) (*model.User, error) {
	if err := f.hit("UserByPhone"); err != nil {
		return nil, err
	}
	u, ok := f.users[phone]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return u, nil
}

func (f *fakeBackend) UserByID(_ context.Context, id int64) (*model.User, error) {
	if err := f.hit("UserByID"); err != nil {
		return nil, err
	}
	u, ok := f.usersByID[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return u, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, _ string, upd model.UserUpdate) error {
	if err := f.hit("UpdateUser"); err != nil {
		return err
	}
	f.userUpdates = append(f.userUpdates, upd)
	return nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, phone string) error {
	if err := f.hit("DeleteUser"); err != nil {
		return err
	}
	f.deletedUsers = append(f.deletedUsers, phone)
	return nil
}

func (f *fakeBackend) SendFeedback(_ context.Context, in model.FeedbackInput) (*model.Feedback, error) {
	if err := f.hit("SendFeedback"); err != nil {
		return nil, err
	}
	f.sentFeedback = append(f.sentFeedback, in)
	return &model.Feedback{ID: 1, UserID: in.UserID, Text: in.Text}, nil
}

func (f *fakeBackend) Feedback(context.Context) ([]model.Feedback, error) {
	if err := f.hit("Feedback"); err != nil {
		return nil, err
	}
	return append([]model.Feedback(nil), f.feedback...), nil
}

var testNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	t        *testing.T
	engine   *Engine
	backend  *fakeBackend
	sessions *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fb := newFakeBackend()
	sessions := session.NewManager(session.NewMemoryStore(), zap.NewNop())
	engine := NewEngine(fb, sessions, zap.NewNop(),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return testNow }),
	)
	return &harness{t: t, engine: engine, backend: fb, sessions: sessions}
}

func (h *harness) send(text string) []Reply {
	h.t.Helper()
	replies, err := h.engine.Handle(context.Background(), Input{ChatID: testChatID, UserID: testUserID, Text: text})
	require.NoError(h.t, err)
	return replies
}

func (h *harness) sendContact(phone string) []Reply {
	h.t.Helper()
	replies, err := h.engine.Handle(context.Background(), Input{ChatID: testChatID, UserID: testUserID, Contact: phone})
	require.NoError(h.t, err)
	return replies
}

func (h *harness) session() *session.Session {
	h.t.Helper()
	s, err := h.sessions.Get(context.Background(), testChatID)
	require.NoError(h.t, err)
	return s
}

func (h *harness) state() State {
	return State(h.session().State)
}

// login проходит /start и отправку контакта зарегистрированного пользователя
func (h *harness) login() {
	h.t.Helper()
	h.send(cmdStart)
	h.sendContact(testPhone)
	require.Equal(h.t, testPhone, h.session().Phone)
}

// lastKeyboard клавиатура последнего ответа, в котором она была
func lastKeyboard(replies []Reply) *keyboard.Keyboard {
	for i := len(replies) - 1; i >= 0; i-- {
		if replies[i].Keyboard != nil {
			return replies[i].Keyboard
		}
	}
	return nil
}

func allText(replies []Reply) string {
	texts := make([]string, 0, len(replies))
	for _, r := range replies {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n")
}
