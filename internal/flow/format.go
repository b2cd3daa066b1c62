package flow

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// formatMoney печатает сумму без копеек, если они равны 0
func formatMoney(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "ціна невідома"
	}
	return formatMoney(*rate) + " грн/год"
}

// pluralHours возвращает правильное склонение слова "година"
func pluralHours(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "година"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "години"
	}
	return "годин"
}

func durationLabel(hours int) string {
	return fmt.Sprintf("%d %s", hours, pluralHours(hours))
}

func formatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// formatBackendTime переводит время бэкенда в локальное; непонятное значение печатается как есть
func (e *Engine) formatBackendTime(raw string) string {
	if raw == "" {
		return "—"
	}
	t, err := model.ParseTime(raw, e.loc)
	if err != nil {
		return raw
	}
	return formatDateTime(t.In(e.loc))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func timeHours(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}
