package flow

import "github.com/Freeeeeet/parkflow_bot/internal/keyboard"

// State идентификатор состояния диалога
type State string

const cmdStart = "/start"

const (
	StateIdle State = ""

	// Мастер бронирования
	StateSelectCity     State = "select_city"
	StateSelectParking  State = "select_parking"
	StateSelectSpot     State = "select_spot"
	StateSelectCar      State = "select_car"
	StateSelectCard     State = "select_card"
	StateSelectDuration State = "select_duration"
	StateConfirmBooking State = "confirm_booking"

	StateBookingList State = "booking_list"

	// Регистрация
	StateRegFirstName State = "reg_first_name"
	StateRegLastName  State = "reg_last_name"
	StateRegEmail     State = "reg_email"

	// Авто
	StateCarMenu         State = "car_menu"
	StateCarAddBrand     State = "car_add_brand"
	StateCarAddModel     State = "car_add_model"
	StateCarAddYear      State = "car_add_year"
	StateCarAddPlate     State = "car_add_plate"
	StateCarEditSelect   State = "car_edit_select"
	StateCarEditBrand    State = "car_edit_brand"
	StateCarEditModel    State = "car_edit_model"
	StateCarEditYear     State = "car_edit_year"
	StateCarDeleteSelect State = "car_delete_select"

	// Картки
	StateCardMenu         State = "card_menu"
	StateCardAddNumber    State = "card_add_number"
	StateCardAddExpiry    State = "card_add_expiry"
	StateCardAddCVV       State = "card_add_cvv"
	StateCardEditSelect   State = "card_edit_select"
	StateCardEditNumber   State = "card_edit_number"
	StateCardEditExpiry   State = "card_edit_expiry"
	StateCardEditCVV      State = "card_edit_cvv"
	StateCardDeleteSelect State = "card_delete_select"

	// Налаштування
	StateSettingsMenu          State = "settings_menu"
	StateSettingsName          State = "settings_name"
	StateSettingsEmail         State = "settings_email"
	StateSettingsDeleteConfirm State = "settings_delete_confirm"

	// Відгуки
	StateFeedbackMenu    State = "feedback_menu"
	StateFeedbackTyping  State = "feedback_typing"
	StateFeedbackConfirm State = "feedback_confirm"
	StateFeedbackList    State = "feedback_list"
)

// stateDef описание состояния.
// enter рисует шаг: при переходе вперёд и при возврате назад.
// enter не меняет сессию, пока не получил все данные, иначе возвращает ошибку.
type stateDef struct {
	enter  func(t *turn) error
	handle func(t *turn) error
	input  bool    // шаг свободного ввода
	next   []State // разрешённые переходы вперёд
}

// mainCommands пункты главного меню
var mainCommands = map[string]State{
	keyboard.BtnCheck:    StateSelectCity,
	keyboard.BtnStatus:   StateBookingList,
	keyboard.BtnCars:     StateCarMenu,
	keyboard.BtnCards:    StateCardMenu,
	keyboard.BtnSettings: StateSettingsMenu,
	keyboard.BtnFeedback: StateFeedbackMenu,
}

func (e *Engine) buildStates() map[State]stateDef {
	return map[State]stateDef{
		StateIdle: {
			enter:  e.enterIdle,
			handle: e.unknown,
			next: []State{
				StateSelectCity, StateBookingList, StateCarMenu, StateCardMenu,
				StateSettingsMenu, StateFeedbackMenu, StateRegFirstName,
			},
		},

		StateSelectCity:     {enter: e.enterSelectCity, handle: e.handleSelectCity, next: []State{StateSelectParking}},
		StateSelectParking:  {enter: e.enterSelectParking, handle: e.handleSelectParking, next: []State{StateSelectSpot}},
		StateSelectSpot:     {enter: e.enterSelectSpot, handle: e.handleSelectSpot, next: []State{StateSelectCar}},
		StateSelectCar:      {enter: e.enterSelectCar, handle: e.handleSelectCar, next: []State{StateSelectCard}},
		StateSelectCard:     {enter: e.enterSelectCard, handle: e.handleSelectCard, next: []State{StateSelectDuration}},
		StateSelectDuration: {enter: e.enterSelectDuration, handle: e.handleSelectDuration, next: []State{StateConfirmBooking}},
		StateConfirmBooking: {enter: e.enterConfirmBooking, handle: e.handleConfirmBooking},

		StateBookingList: {enter: e.enterBookingList, handle: e.handleBookingList},

		StateRegFirstName: {enter: e.enterRegFirstName, handle: e.handleRegFirstName, input: true, next: []State{StateRegLastName}},
		StateRegLastName:  {enter: e.enterRegLastName, handle: e.handleRegLastName, input: true, next: []State{StateRegEmail}},
		StateRegEmail:     {enter: e.enterRegEmail, handle: e.handleRegEmail, input: true},

		StateCarMenu: {
			enter:  e.enterCarMenu,
			handle: e.handleCarMenu,
			next:   []State{StateCarAddBrand, StateCarEditSelect, StateCarDeleteSelect},
		},
		StateCarAddBrand:     {enter: e.enterCarAddBrand, handle: e.handleCarBrand, input: true, next: []State{StateCarAddModel}},
		StateCarAddModel:     {enter: e.enterCarAddModel, handle: e.handleCarModel, input: true, next: []State{StateCarAddYear}},
		StateCarAddYear:      {enter: e.enterCarAddYear, handle: e.handleCarYear, input: true, next: []State{StateCarAddPlate}},
		StateCarAddPlate:     {enter: e.enterCarAddPlate, handle: e.handleCarAddPlate, input: true},
		StateCarEditSelect:   {enter: e.enterCarEditSelect, handle: e.handleCarEditSelect, next: []State{StateCarEditBrand}},
		StateCarEditBrand:    {enter: e.enterCarEditBrand, handle: e.handleCarBrand, input: true, next: []State{StateCarEditModel}},
		StateCarEditModel:    {enter: e.enterCarEditModel, handle: e.handleCarModel, input: true, next: []State{StateCarEditYear}},
		StateCarEditYear:     {enter: e.enterCarEditYear, handle: e.handleCarEditYear, input: true},
		StateCarDeleteSelect: {enter: e.enterCarDeleteSelect, handle: e.handleCarDeleteSelect},

		StateCardMenu: {
			enter:  e.enterCardMenu,
			handle: e.handleCardMenu,
			next:   []State{StateCardAddNumber, StateCardEditSelect, StateCardDeleteSelect},
		},
		StateCardAddNumber:    {enter: e.enterCardAddNumber, handle: e.handleCardNumber, input: true, next: []State{StateCardAddExpiry}},
		StateCardAddExpiry:    {enter: e.enterCardAddExpiry, handle: e.handleCardExpiry, input: true, next: []State{StateCardAddCVV}},
		StateCardAddCVV:       {enter: e.enterCardAddCVV, handle: e.handleCardAddCVV, input: true},
		StateCardEditSelect:   {enter: e.enterCardEditSelect, handle: e.handleCardEditSelect, next: []State{StateCardEditNumber}},
		StateCardEditNumber:   {enter: e.enterCardEditNumber, handle: e.handleCardNumber, input: true, next: []State{StateCardEditExpiry}},
		StateCardEditExpiry:   {enter: e.enterCardEditExpiry, handle: e.handleCardExpiry, input: true, next: []State{StateCardEditCVV}},
		StateCardEditCVV:      {enter: e.enterCardEditCVV, handle: e.handleCardEditCVV, input: true},
		StateCardDeleteSelect: {enter: e.enterCardDeleteSelect, handle: e.handleCardDeleteSelect},

		StateSettingsMenu: {
			enter:  e.enterSettingsMenu,
			handle: e.handleSettingsMenu,
			next:   []State{StateSettingsName, StateSettingsEmail, StateSettingsDeleteConfirm},
		},
		StateSettingsName:          {enter: e.enterSettingsName, handle: e.handleSettingsName, input: true},
		StateSettingsEmail:         {enter: e.enterSettingsEmail, handle: e.handleSettingsEmail, input: true},
		StateSettingsDeleteConfirm: {enter: e.enterSettingsDeleteConfirm, handle: e.handleSettingsDeleteConfirm},

		StateFeedbackMenu: {
			enter:  e.enterFeedbackMenu,
			handle: e.handleFeedbackMenu,
			next:   []State{StateFeedbackTyping, StateFeedbackList},
		},
		StateFeedbackTyping:  {enter: e.enterFeedbackTyping, handle: e.handleFeedbackTyping, input: true, next: []State{StateFeedbackConfirm}},
		StateFeedbackConfirm: {enter: e.enterFeedbackConfirm, handle: e.handleFeedbackConfirm},
		StateFeedbackList:    {enter: e.enterFeedbackList, handle: e.handleFeedbackList},
	}
}
