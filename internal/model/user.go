package model

type User struct {
	ID          int64  `json:"id"`
	TelegramID  int64  `json:"telegram_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

// FullName возвращает имя и фамилию через пробел
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// UserRegistration тело запроса на регистрацию
type UserRegistration struct {
	TelegramID  int64   `json:"telegram_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email"`
}

// UserUpdate частичное обновление профиля
type UserUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}
