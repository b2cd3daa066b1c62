package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Ошибки клиента бэкенда
var (
	ErrNotFound    = errors.New("resource not found")
	ErrDuplicate   = errors.New("resource already exists")
	ErrUnavailable = errors.New("backend unavailable")
)

// StatusError описывает неуспешный HTTP-ответ бэкенда
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Unwrap позволяет проверять ответ через errors.Is(err, ErrNotFound) и т.п.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}
