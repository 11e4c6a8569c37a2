package models

import (
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
)

// CreateStationRequest запрос на регистрацию станции
type CreateStationRequest struct {
	OwnerID             int64
	Name                string
	Address             string
	Latitude            float64
	Longitude           float64
	ConnectorTypes      []string
	PowerOutput         float64
	PricePerKwh         float64
	OpenTime            string // "HH:MM", по умолчанию 08:00
	CloseTime           string // "HH:MM", по умолчанию 22:00
	SlotDurationMinutes int    // по умолчанию 60
	TotalSlots          int
}

// StationResponse ответ с данными станции
type StationResponse struct {
	ID                  int64    `json:"id"`
	OwnerID             int64    `json:"ownerId"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	ConnectorTypes      []string `json:"connectorTypes"`
	PowerOutput         float64  `json:"powerOutput"`
	PricePerKwh         float64  `json:"pricePerKwh"`
	OpenTime            string   `json:"openTime"`
	CloseTime           string   `json:"closeTime"`
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
	Status              string   `json:"status"`
	ApprovalStatus      string   `json:"approvalStatus"`
	TotalSlots          int      `json:"totalSlots"`
	AvailableSlots      int      `json:"availableSlots"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

// StationListResponse ответ со списком станций
type StationListResponse struct {
	Stations []*StationResponse `json:"stations"`
	Total    int                `json:"total"`
}

// ReconcileResponse результат пересчета кеша доступности
type ReconcileResponse struct {
	StationID      int64 `json:"stationId"`
	AvailableSlots int   `json:"availableSlots"`
}

// FromDomainStation конвертирует domain станцию в response
func FromDomainStation(s *domain.Station) *StationResponse {
	return &StationResponse{
		ID:                  s.ID,
		OwnerID:             s.OwnerID,
		Name:                s.Name,
		Address:             s.Address,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		ConnectorTypes:      s.ConnectorTypes,
		PowerOutput:         s.PowerOutput,
		PricePerKwh:         s.PricePerKwh,
		OpenTime:            s.OpenTime.String(),
		CloseTime:           s.CloseTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		Status:              string(s.Status),
		ApprovalStatus:      string(s.ApprovalStatus),
		TotalSlots:          s.TotalSlots,
		AvailableSlots:      s.AvailableSlots,
		CreatedAt:           s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           s.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainStationList конвертирует список domain станций в response
func FromDomainStationList(stations []*domain.Station) *StationListResponse {
	items := make([]*StationResponse, len(stations))
	for i, s := range stations {
		items[i] = FromDomainStation(s)
	}
	return &StationListResponse{
		Stations: items,
		Total:    len(items),
	}
}
