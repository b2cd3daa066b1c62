package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// RegisterUser регистрирует пользователя
func (c *Client) RegisterUser(ctx context.Context, reg model.UserRegistration) (*model.User, error) {
	var user model.User
	_, err := c.call(ctx, request{
		op:     "register user",
		method: http.MethodPost,
		path:   "/users/register",
		body:   reg,
		ok:     []int{http.StatusOK, http.StatusCreated},
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByPhone ищет пользователя по телефону.
// 404 возвращается как ErrNotFound, решение о продолжении принимает вызывающий.
func (c *Client) UserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	_, err := c.call(ctx, request{
		op:     "get user by phone",
		method: http.MethodGet,
		path:   "/users/by-phone",
		query:  url.Values{"phone_number": {phone}},
		ok:     []int{http.StatusOK},
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByID получает пользователя по ID
func (c *Client) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	_, err := c.call(ctx, request{
		op:     "get user by id",
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/%d", id),
		ok:     []int{http.StatusOK},
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser частично обновляет профиль
func (c *Client) UpdateUser(ctx context.Context, phone string, upd model.UserUpdate) error {
	_, err := c.call(ctx, request{
		op:     "update user",
		method: http.MethodPut,
		path:   "/users/update",
		query:  url.Values{"phone_number": {phone}},
		body:   upd,
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// DeleteUser удаляет профиль
func (c *Client) DeleteUser(ctx context.Context, phone string) error {
	_, err := c.call(ctx, request{
		op:     "delete user",
		method: http.MethodDelete,
		path:   "/users/delete",
		query:  url.Values{"phone_number": {phone}},
		ok:     []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}
