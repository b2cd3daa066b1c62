package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Freeeeeet/parkflow_bot/internal/model"
)

// Cities возвращает все города
func (c *Client) Cities(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	_, err := c.call(ctx, request{
		op:     "list cities",
		method: http.MethodGet,
		path:   "/parking/cities",
		ok:     []int{http.StatusOK},
		out:    &cities,
	})
	if err != nil {
		return nil, err
	}
	return cities, nil
}

// ParkingsByCity возвращает паркинги города.
// API отдаёт все паркинги, фильтруем по city_id на клиенте.
func (c *Client) ParkingsByCity(ctx context.Context, cityID int64) ([]model.Parking, error) {
	var all []model.Parking
	_, err := c.call(ctx, request{
		op:     "list parkings",
		method: http.MethodGet,
		path:   "/parking/parkings",
		ok:     []int{http.StatusOK},
		out:    &all,
	})
	if err != nil {
		return nil, err
	}

	parkings := make([]model.Parking, 0, len(all))
	for _, p := range all {
		if p.CityID == cityID {
			parkings = append(parkings, p)
		}
	}
	return parkings, nil
}

// AvailableSpots возвращает свободные места паркинга
func (c *Client) AvailableSpots(ctx context.Context, parkingID int64) ([]model.Spot, error) {
	var spots []model.Spot
	_, err := c.call(ctx, request{
		op:     "list available spots",
		method: http.MethodGet,
		path:   "/parking/spots/available",
		query:  url.Values{"parking_id": {strconv.FormatInt(parkingID, 10)}},
		ok:     []int{http.StatusOK},
		out:    &spots,
	})
	if err != nil {
		return nil, err
	}
	return spots, nil
}

// Spot возвращает место по ID
func (c *Client) Spot(ctx context.Context, spotID int64) (*model.Spot, error) {
	var spot model.Spot
	_, err := c.call(ctx, request{
		op:     "get spot",
		method: http.MethodGet,
		path:   fmt.Sprintf("/parking/spot/%d", spotID),
		ok:     []int{http.StatusOK},
		out:    &spot,
	})
	if err != nil {
		return nil, err
	}
	return &spot, nil
}
