package keyboard

// Навигация
const (
	BtnBack  = "⬅️ Назад"
	BtnHome  = "🏠 Головне меню"
	BtnRetry = "🔁 Спробувати ще раз"
	BtnShare = "📞 Надати номер телефону"
	BtnSkip  = "пропустити"
	BtnPrev  = "⬅️ Попередня"
	BtnNext  = "➡️ Наступна"
)

// Головне меню
const (
	BtnCars     = "🚘 Мої авто"
	BtnCheck    = "📍 Перевірити доступні місця"
	BtnStatus   = "ℹ️ Статус бронювання"
	BtnCards    = "💳 Картки"
	BtnSettings = "⚙️ Налаштування"
	BtnFeedback = "📣 Відгуки"
)

// Налаштування
const (
	BtnProfile       = "👤 Отримати інформацію про себе"
	BtnChangeName    = "✏️ Змінити ім'я"
	BtnChangeEmail   = "📧 Змінити email"
	BtnDeleteProfile = "❌ Видалити мій профіль"
	BtnDeleteYes     = "✅ Так, видалити"
	BtnDeleteNo      = "❌ Ні, скасувати"
)

// Авто
const (
	BtnCarList   = "📋 Список авто"
	BtnCarAdd    = "🚘 Додати авто"
	BtnCarEdit   = "✏️ Змінити авто"
	BtnCarDelete = "🗑 Видалити авто"
)

// Картки
const (
	BtnCardAdd    = "➕ Додати картку"
	BtnCardList   = "📋 Мої картки"
	BtnCardEdit   = "✏️ Змінити картку"
	BtnCardDelete = "❌ Видалити картку"
)

// Відгуки
const (
	BtnFeedbackSend  = "✍️ Надіслати відгук"
	BtnFeedbackAll   = "📖 Всі відгуки"
	BtnFeedbackMenu  = "📋 Меню відгуків"
	BtnFeedbackFinal = "📤 Відправити"
)

// Подтверждение бронирования
const (
	BtnYes = "✅ Так"
	BtnNo  = "❌ Ні"
)

// Main главное меню
func Main() Keyboard {
	return Build([]string{BtnCars, BtnCheck, BtnStatus, BtnCards, BtnSettings, BtnFeedback}, WithoutNav())
}

func Settings() Keyboard {
	return Build([]string{BtnProfile, BtnChangeName, BtnChangeEmail, BtnDeleteProfile})
}

func Cars() Keyboard {
	return Build([]string{BtnCarList, BtnCarAdd, BtnCarEdit, BtnCarDelete})
}

func Cards() Keyboard {
	return Build([]string{BtnCardAdd, BtnCardList, BtnCardEdit, BtnCardDelete})
}

func Feedback() Keyboard {
	return Build([]string{BtnFeedbackSend, BtnFeedbackAll})
}

// FeedbackPreview кнопки под черновиком отзыва
func FeedbackPreview() Keyboard {
	return Build([]string{BtnFeedbackFinal})
}

// Back только ряд навигации, для шагов со свободным вводом
func Back() Keyboard {
	return Build(nil)
}

// ShareContact запрос номера телефона
func ShareContact() Keyboard {
	return NewBuilder().Row(Contact(BtnShare)).OneTime().Build()
}

// Retry повтор после недоступности сервера
func Retry() Keyboard {
	return NewBuilder().Row(Text(BtnRetry)).OneTime().Build()
}

// SkipEmail необязательный шаг регистрации
func SkipEmail() Keyboard {
	return NewBuilder().Row(Text(BtnSkip)).Row(Text(BtnBack)).Build()
}

// ConfirmBooking финальный шаг мастера бронирования
func ConfirmBooking() Keyboard {
	return NewBuilder().Row(Text(BtnYes), Text(BtnNo)).Nav().Build()
}

// ConfirmDelete подтверждение удаления профиля
func ConfirmDelete() Keyboard {
	return NewBuilder().Column(BtnDeleteYes, BtnDeleteNo).OneTime().Build()
}

// Pagination кнопки листания; extra добавляются отдельными рядами перед "Головне меню"
func Pagination(page, totalPages int, extra ...string) Keyboard {
	b := NewBuilder()

	var nav []Button
	if page > 1 {
		nav = append(nav, Text(BtnPrev))
	}
	if page < totalPages {
		nav = append(nav, Text(BtnNext))
	}
	b.Row(nav...)

	return b.Column(extra...).Row(Text(BtnHome)).Build()
}
