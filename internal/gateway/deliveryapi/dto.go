package deliveryapi

import "github.com/goccy/go-json"

// recordDTO is the server shape of a delivery request.
type recordDTO struct {
	ID              *int64          `json:"id"`
	LocalID         string          `json:"local_id,omitempty"`
	PickupAddress   string          `json:"pickup_address"`
	DropoffAddress  string          `json:"dropoff_address"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	DeliveryNote    string          `json:"delivery_note"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	Driver          *int64          `json:"driver"`
	DriverName      string          `json:"driver_name"`
	DriverEmail     string          `json:"driver_email"`
	AssignedAt      string          `json:"assigned_at"`
	AssignedByEmail string          `json:"assigned_by_email"`
	Coordinates     json.RawMessage `json:"coordinates"`
}

type pointDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type coordinatesDTO struct {
	Pickup  pointDTO `json:"pickup"`
	Dropoff pointDTO `json:"dropoff"`
}

// createPayload is the body of a remote create.
type createPayload struct {
	PickupAddress  string          `json:"pickup_address"`
	DropoffAddress string          `json:"dropoff_address"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	DeliveryNote   string          `json:"delivery_note,omitempty"`
	Status         string          `json:"status,omitempty"`
	Driver         *int64          `json:"driver,omitempty"`
	Coordinates    *coordinatesDTO `json:"coordinates,omitempty"`
	PendingSync    bool            `json:"pending_sync,omitempty"`
	LocalID        string          `json:"local_id,omitempty"`
}

type updatePayload struct {
	Status string `json:"status,omitempty"`
	Driver *int64 `json:"driver,omitempty"`
}

type batchPayload struct {
	Requests []createPayload `json:"requests"`
}

type paginationDTO struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}
