package model

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Parking struct {
	ID      int64  `json:"id"`
	CityID  int64  `json:"city_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Spot struct {
	ID            int64    `json:"id"`
	ParkingID     int64    `json:"parking_id"`
	Number        string   `json:"number"`
	HourlyRate    *float64 `json:"hourly_rate"` // nil - бэкенд не вернул цену
	IsAvailable   bool     `json:"is_available"`
	OccupiedFrom  string   `json:"occupied_from,omitempty"`
	OccupiedUntil string   `json:"occupied_until,omitempty"`
}
