package model

import "fmt"

type Card struct {
	ID      int64  `json:"id"`
	Number  string `json:"number"`
	ExpDate string `json:"exp_date"`
}

// CardInput тело запроса на создание/изменение карты
type CardInput struct {
	Number  string `json:"number"`
	ExpDate string `json:"exp_date"`
	CVV     string `json:"cvv"`
}

// MaskCardNumber оставляет видимыми первые и последние 4 цифры
func MaskCardNumber(number string) string {
	if len(number) < 8 {
		return number
	}
	return fmt.Sprintf("%s **** **** %s", number[:4], number[len(number)-4:])
}

// LastFour возвращает последние 4 цифры номера
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
