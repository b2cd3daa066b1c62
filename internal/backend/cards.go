package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// Сообщение бэкенда о повторном добавлении карты
const duplicateCardMessage = "Картка вже існує"

// Cards возвращает карты пользователя
func (c *Client) Cards(ctx context.Context, phone string) ([]model.Card, error) {
	var cards []model.Card
	_, err := c.call(ctx, request{
		op:     "list cards",
		method: http.MethodGet,
		path:   phonePath("/cards/phone/", phone),
		ok:     []int{http.StatusOK},
		out:    &cards,
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// AddCard добавляет карту; ErrDuplicate если такая карта уже есть
func (c *Client) AddCard(ctx context.Context, phone string, card model.CardInput) error {
	var msg messageResponse
	status, err := c.call(ctx, request{
		op:     "add card",
		method: http.MethodPost,
		path:   phonePath("/cards/phone/", phone),
		body:   card,
		ok:     []int{http.StatusCreated, http.StatusOK},
		out:    &msg,
	})
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		if msg.Message == duplicateCardMessage {
			return fmt.Errorf("add card: %w", ErrDuplicate)
		}
		return &StatusError{Op: "add card", Status: status, Body: msg.Message}
	}
	return nil
}

// UpdateCard изменяет карту по ID
func (c *Client) UpdateCard(ctx context.Context, cardID int64, card model.CardInput) error {
	_, err := c.call(ctx, request{
		op:     "update card",
		method: http.MethodPut,
		path:   fmt.Sprintf("/cards/%d", cardID),
		body:   card,
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// DeleteCard удаляет карту по ID
func (c *Client) DeleteCard(ctx context.Context, cardID int64) error {
	_, err := c.call(ctx, request{
		op:     "delete card",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/cards/%d", cardID),
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}
