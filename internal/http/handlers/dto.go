package handlers

import "delivery-sync/internal/domain"

type createRequestBody struct {
	PickupAddress  string              `json:"pickupAddress"`
	DropoffAddress string              `json:"dropoffAddress"`
	CustomerName   string              `json:"customerName"`
	CustomerPhone  string              `json:"customerPhone"`
	CustomerEmail  string              `json:"customerEmail,omitempty"`
	DeliveryNote   string              `json:"deliveryNote,omitempty"`
	Status         domain.Status       `json:"status,omitempty"`
	Coordinates    *domain.Coordinates `json:"coordinates,omitempty"`
}

func (b createRequestBody) toModel() domain.NewRequest {
	return domain.NewRequest{
		PickupAddress:  b.PickupAddress,
		DropoffAddress: b.DropoffAddress,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		CustomerEmail:  b.CustomerEmail,
		DeliveryNote:   b.DeliveryNote,
		Status:         b.Status,
		Coordinates:    b.Coordinates,
	}
}

type statusBody struct {
	Status domain.Status `json:"status"`
}

type partnerBody struct {
	PartnerID   int64  `json:"partnerId"`
	PartnerName string `json:"partnerName"`
}

type connectivityBody struct {
	Online *bool `json:"online"`
}

type connectivityResponse struct {
	Online  bool `json:"online"`
	Changed bool `json:"changed"`
}

type sessionBody struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

func (b sessionBody) toModel() domain.Session {
	return domain.Session{
		ID:       b.ID,
		Email:    b.Email,
		Username: b.Username,
		Role:     b.Role,
	}
}

type listResponse struct {
	Results []domain.DeliveryRequest `json:"results"`
	Count   int                      `json:"count"`
}

func newListResponse(recs []domain.DeliveryRequest) listResponse {
	if recs == nil {
		recs = []domain.DeliveryRequest{}
	}
	return listResponse{Results: recs, Count: len(recs)}
}
