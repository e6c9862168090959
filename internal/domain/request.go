package domain

import "time"

// LatLng is a geographic point.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates holds the pickup and dropoff points of a request.
type Coordinates struct {
	Pickup  LatLng `json:"pickup"`
	Dropoff LatLng `json:"dropoff"`
}

// DeliveryRequest is the local canonical record.
type DeliveryRequest struct {
	ID              string       `json:"id"`
	ServerID        *int64       `json:"serverId,omitempty"`
	PickupAddress   string       `json:"pickupAddress"`
	DropoffAddress  string       `json:"dropoffAddress"`
	CustomerName    string       `json:"customerName"`
	CustomerPhone   string       `json:"customerPhone"`
	CustomerEmail   string       `json:"customerEmail,omitempty"`
	DeliveryNote    string       `json:"deliveryNote,omitempty"`
	Status          Status       `json:"status"`
	SyncStatus      SyncStatus   `json:"syncStatus"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	PartnerID       *int64       `json:"partnerId,omitempty"`
	PartnerName     string       `json:"partnerName,omitempty"`
	DriverName      string       `json:"driverName,omitempty"`
	DriverEmail     string       `json:"driverEmail,omitempty"`
	AssignedAt      *time.Time   `json:"assignedAt,omitempty"`
	AssignedByEmail string       `json:"assignedByEmail,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
}

// HasServerID reports whether the record was accepted by the remote system.
func (r DeliveryRequest) HasServerID() bool {
	return r.ServerID != nil
}

// NewRequest carries the fields of a create intent.
type NewRequest struct {
	PickupAddress  string       `validate:"required"`
	DropoffAddress string       `validate:"required"`
	CustomerName   string       `validate:"required"`
	CustomerPhone  string       `validate:"required"`
	CustomerEmail  string       `validate:"omitempty,email"`
	DeliveryNote   string
	Status         Status       `validate:"omitempty,eq=pending"`
	Coordinates    *Coordinates `validate:"omitempty"`
}

// RecordPatch carries optional fields to merge into a record.
// A nil field means "do not change" that attribute.
type RecordPatch struct {
	ServerID        *int64
	Status          *Status
	SyncStatus      *SyncStatus
	UpdatedAt       *time.Time
	PartnerID       *int64
	PartnerName     *string
	DriverName      *string
	DriverEmail     *string
	AssignedAt      *time.Time
	AssignedByEmail *string
}

// Apply merges p into r. ServerID is only attached when r has none.
func (p RecordPatch) Apply(r *DeliveryRequest) {
	if p.ServerID != nil && r.ServerID == nil {
		id := *p.ServerID
		r.ServerID = &id
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.SyncStatus != nil {
		r.SyncStatus = *p.SyncStatus
	}
	if p.UpdatedAt != nil {
		r.UpdatedAt = *p.UpdatedAt
	}
	if p.PartnerID != nil {
		id := *p.PartnerID
		r.PartnerID = &id
	}
	if p.PartnerName != nil {
		r.PartnerName = *p.PartnerName
	}
	if p.DriverName != nil {
		r.DriverName = *p.DriverName
	}
	if p.DriverEmail != nil {
		r.DriverEmail = *p.DriverEmail
	}
	if p.AssignedAt != nil {
		at := *p.AssignedAt
		r.AssignedAt = &at
	}
	if p.AssignedByEmail != nil {
		r.AssignedByEmail = *p.AssignedByEmail
	}
}

// RequestUpdate is the partial update sent to the remote system.
type RequestUpdate struct {
	Status   Status
	DriverID *int64
}

// RequestPage is one page of a remote listing.
type RequestPage struct {
	Results  []DeliveryRequest
	Count    int
	Next     string
	Previous string
}

// HasNext reports whether another page is available.
func (p RequestPage) HasNext() bool {
	return p.Next != ""
}

// ListQuery narrows a remote listing.
type ListQuery struct {
	Page     int
	Search   string
	Ordering string
}

// Partner is a driver that can be assigned to a request.
type Partner struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Distance  string  `json:"distance,omitempty"`
	Available bool    `json:"available"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
