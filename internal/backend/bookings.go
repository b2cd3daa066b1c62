package backend

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
	"go.uber.org/zap"
)

// CreateBooking создаёт бронирование от имени пользователя
func (c *Client) CreateBooking(ctx context.Context, phone string, req model.BookingRequest) (*model.Booking, error) {
	var booking model.Booking
	_, err := c.call(ctx, request{
		op:     "create booking",
		method: http.MethodPost,
		path:   phonePath("/bookings/phone/", phone),
		body:   req,
		ok:     []int{http.StatusCreated},
		out:    &booking,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("spot_id", req.SpotID),
		zap.Float64("total_price", booking.TotalPrice))

	return &booking, nil
}

// Bookings возвращает бронирования пользователя
func (c *Client) Bookings(ctx context.Context, phone string) ([]model.Booking, error) {
	var bookings []model.Booking
	_, err := c.call(ctx, request{
		op:     "list bookings",
		method: http.MethodGet,
		path:   phonePath("/bookings/phone/", phone),
		ok:     []int{http.StatusOK},
		out:    &bookings,
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
