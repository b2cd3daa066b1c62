package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// Сообщение бэкенда о повторном добавлении авто (ответ 200 вместо 201)
const duplicateCarMessage = "Авто з таким номером вже додано"

// Cars возвращает авто пользователя; пустой список не ошибка
func (c *Client) Cars(ctx context.Context, phone string) ([]model.Car, error) {
	var cars []model.Car
	_, err := c.call(ctx, request{
		op:     "list cars",
		method: http.MethodGet,
		path:   phonePath("/cars/phone/", phone),
		ok:     []int{http.StatusOK},
		out:    &cars,
	})
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// AddCar добавляет авто; ErrDuplicate если номер уже зарегистрирован
func (c *Client) AddCar(ctx context.Context, phone string, car model.CarInput) error {
	var msg messageResponse
	status, err := c.call(ctx, request{
		op:     "add car",
		method: http.MethodPost,
		path:   phonePath("/cars/phone/", phone),
		body:   car,
		ok:     []int{http.StatusCreated, http.StatusOK},
		out:    &msg,
	})
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		if msg.Message == duplicateCarMessage {
			return fmt.Errorf("add car %s: %w", car.LicensePlate, ErrDuplicate)
		}
		return &StatusError{Op: "add car", Status: status, Body: msg.Message}
	}
	return nil
}

// UpdateCar изменяет авто по номерному знаку
func (c *Client) UpdateCar(ctx context.Context, phone, plate string, car model.CarInput) error {
	_, err := c.call(ctx, request{
		op:     "update car",
		method: http.MethodPut,
		path:   phonePath("/cars/phone/", phone) + "/" + url.PathEscape(plate),
		body:   car,
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// DeleteCar удаляет авто по номерному знаку
func (c *Client) DeleteCar(ctx context.Context, phone, plate string) error {
	_, err := c.call(ctx, request{
		op:     "delete car",
		method: http.MethodDelete,
		path:   phonePath("/cars/phone/", phone) + "/" + url.PathEscape(plate),
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

type messageResponse struct {
	Message string `json:"message"`
}
