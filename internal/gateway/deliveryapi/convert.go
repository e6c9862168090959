package deliveryapi

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"delivery-sync/internal/domain"
)

// toDomain normalizes a server record. The local ID is the echoed local_id,
// empty when the server did not echo one.
func toDomain(d recordDTO, now time.Time) domain.DeliveryRequest {
	r := domain.DeliveryRequest{
		ID:              d.LocalID,
		ServerID:        d.ID,
		PickupAddress:   d.PickupAddress,
		DropoffAddress:  d.DropoffAddress,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerEmail:   d.CustomerEmail,
		DeliveryNote:    d.DeliveryNote,
		Status:          domain.Status(d.Status),
		SyncStatus:      domain.SyncSynced,
		CreatedAt:       parseTime(d.CreatedAt, now),
		UpdatedAt:       parseTime(d.UpdatedAt, now),
		PartnerID:       d.Driver,
		DriverName:      d.DriverName,
		DriverEmail:     d.DriverEmail,
		AssignedByEmail: d.AssignedByEmail,
		Coordinates:     decodeCoordinates(d.Coordinates),
	}
	if r.Status == "" {
		r.Status = domain.StatusPending
	}
	if r.DriverName != "" {
		r.PartnerName = r.DriverName
	}
	if d.AssignedAt != "" {
		if at, err := time.Parse(time.RFC3339Nano, d.AssignedAt); err == nil {
			r.AssignedAt = &at
		}
	}
	return r
}

func toDomainList(list []recordDTO, now time.Time) []domain.DeliveryRequest {
	out := make([]domain.DeliveryRequest, 0, len(list))
	for _, d := range list {
		out = append(out, toDomain(d, now))
	}
	return out
}

func toCreatePayload(r domain.DeliveryRequest, pendingSync bool) createPayload {
	p := createPayload{
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		CustomerEmail:  r.CustomerEmail,
		DeliveryNote:   r.DeliveryNote,
		Status:         string(r.Status),
		Driver:         r.PartnerID,
		PendingSync:    pendingSync,
		LocalID:        r.ID,
	}
	if c := r.Coordinates; c != nil {
		p.Coordinates = &coordinatesDTO{
			Pickup:  pointDTO{Latitude: c.Pickup.Latitude, Longitude: c.Pickup.Longitude},
			Dropoff: pointDTO{Latitude: c.Dropoff.Latitude, Longitude: c.Dropoff.Longitude},
		}
	}
	return p
}

// decodeCoordinates accepts an object or a JSON-encoded string. Anything else yields nil.
func decodeCoordinates(raw json.RawMessage) *domain.Coordinates {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		s = inner
	}
	var c coordinatesDTO
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil
	}
	return &domain.Coordinates{
		Pickup:  domain.LatLng{Latitude: c.Pickup.Latitude, Longitude: c.Pickup.Longitude},
		Dropoff: domain.LatLng{Latitude: c.Dropoff.Latitude, Longitude: c.Dropoff.Longitude},
	}
}

func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return fallback
}
