package domain

import (
	"time"

	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// StationStatus represents the operational status of a station
type StationStatus string

const (
	StationStatusActive      StationStatus = "active"
	StationStatusInactive    StationStatus = "inactive"
	StationStatusMaintenance StationStatus = "maintenance"
)

// ApprovalStatus represents the moderation status of a station
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Station represents a charging station with fixed per-window capacity
type Station struct {
	ID      int64
	OwnerID int64

	Name           string
	Address        string
	Latitude       float64
	Longitude      float64
	ConnectorTypes []string
	PowerOutput    float64 // кВт
	PricePerKwh    float64

	// Рабочие часы и шаг сетки слотов
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int

	Status         StationStatus
	ApprovalStatus ApprovalStatus

	// TotalSlots - вместимость станции на одно временное окно.
	// AvailableSlots - кэшированный счетчик для витрины. Только для отображения:
	// решение о допуске бронирования ВСЕГДА пересчитывается по строкам bookings.
	TotalSlots     int
	AvailableSlots int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the station accepts new bookings
func (s *Station) IsBookable() bool {
	return s.Status == StationStatusActive && s.ApprovalStatus == ApprovalStatusApproved
}

// IsOwnedBy returns true if the station belongs to the given user
func (s *Station) IsOwnedBy(userID int64) bool {
	return s.OwnerID == userID
}
