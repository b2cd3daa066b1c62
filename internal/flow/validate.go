package flow

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MaxDurationHours самая длинная бронь, которую предлагает меню
const MaxDurationHours = 24

var ErrInvalidDuration = errors.New("invalid duration")

// NormalizePlate приводит номер авто к верхнему регистру
func NormalizePlate(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidPlate проверяет формат AA1234BK: 2 буквы, 4 цифры, 2 буквы
func ValidPlate(plate string) bool {
	r := []rune(plate)
	if len(r) != 8 {
		return false
	}
	for i, c := range r {
		switch {
		case i < 2 || i >= 6:
			if !unicode.IsLetter(c) {
				return false
			}
		default:
			if !unicode.IsDigit(c) {
				return false
			}
		}
	}
	return true
}

// NormalizeCardNumber убирает пробелы из номера карты
func NormalizeCardNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// ValidCardNumber ровно 16 цифр
func ValidCardNumber(number string) bool {
	return len(number) == 16 && digits(number)
}

// ValidExpiry формат MM/YY
func ValidExpiry(exp string) bool {
	if len(exp) != 5 || exp[2] != '/' || !digits(exp[:2]) || !digits(exp[3:]) {
		return false
	}
	month, _ := strconv.Atoi(exp[:2])
	return month >= 1 && month <= 12
}

// ValidCVV ровно 3 цифры
func ValidCVV(cvv string) bool {
	return len(cvv) == 3 && digits(cvv)
}

// ParseYear принимает год выпуска от 1900 до следующего года
func ParseYear(s string, now time.Time) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !digits(s) {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return year, year >= 1900 && year <= now.Year()+1
}

func ValidBrand(brand string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(brand)) >= 2
}

func ValidModel(model string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(model)) >= 1
}

// ValidEmail упрощённая проверка: есть "@" и "."
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// SplitFullName делит "Ім'я Прізвище"; всё после первого слова считается фамилией
func SplitFullName(s string) (first, last string, ok bool) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], strings.Join(parts[1:], " "), true
}

// ParseDuration читает число часов из первого слова ("3 години" -> 3)
func ParseDuration(s string) (int, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, ErrInvalidDuration
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidDuration
	}
	if hours < 1 || hours > MaxDurationHours {
		return 0, ErrInvalidDuration
	}
	return hours, nil
}

// TotalPrice стоимость брони
func TotalPrice(hours int, hourlyRate float64) float64 {
	return float64(hours) * hourlyRate
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
