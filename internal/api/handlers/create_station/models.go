package create_station

import (
	"github.com/m04kA/EVC-BookingService/internal/service/stations/models"
)

// CreateStationRequest HTTP request model
type CreateStationRequest struct {
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	ConnectorTypes      []string `json:"connectorTypes"`
	PowerOutput         float64  `json:"powerOutput"`
	PricePerKwh         float64  `json:"pricePerKwh"`
	OpenTime            string   `json:"openTime,omitempty"`
	CloseTime           string   `json:"closeTime,omitempty"`
	SlotDurationMinutes int      `json:"slotDurationMinutes,omitempty"`
	TotalSlots          int      `json:"totalSlots"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateStationRequest) ToServiceRequest(ownerID int64) *models.CreateStationRequest {
	return &models.CreateStationRequest{
		OwnerID:             ownerID,
		Name:                r.Name,
		Address:             r.Address,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		ConnectorTypes:      r.ConnectorTypes,
		PowerOutput:         r.PowerOutput,
		PricePerKwh:         r.PricePerKwh,
		OpenTime:            r.OpenTime,
		CloseTime:           r.CloseTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		TotalSlots:          r.TotalSlots,
	}
}
