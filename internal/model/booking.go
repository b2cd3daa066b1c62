package model

import "time"

type BookingStatus string

const (
	BookingStatusPaid     BookingStatus = "paid"
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusRejected BookingStatus = "rejected"
)

type Booking struct {
	ID            int64         `json:"id"`
	SpotID        int64         `json:"spot_id"`
	CarID         int64         `json:"car_id"`
	CardID        int64         `json:"card_id"`
	DurationHours float64       `json:"duration_hours"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	CreatedAt     string        `json:"created_at"`

	// Вложенные объекты, которые бэкенд отдаёт в списке бронирований
	Car  *Car  `json:"car,omitempty"`
	Card *Card `json:"card,omitempty"`
}

// BookingRequest тело запроса на создание бронирования
type BookingRequest struct {
	SpotID        int64     `json:"spot_id"`
	CarID         int64     `json:"car_id"`
	CardID        int64     `json:"card_id"`
	DurationHours int       `json:"duration_hours"`
	TotalPrice    float64   `json:"total_price"`
	OccupiedFrom  time.Time `json:"occupied_from"`
}
