package models

import (
	"errors"
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID  int64       // ID инициатора отмены
	Role    domain.Role // Роль инициатора (admin отменяет чужие бронирования)
	Message string      // Причина отмены
}

// CompleteBookingRequest запрос на завершение бронирования оператором станции
type CompleteBookingRequest struct {
	UserID int64       // ID инициатора
	Role   domain.Role // Роль инициатора
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID      int64       // Чьи бронирования запрашиваются
	RequesterID int64       // Кто запрашивает
	Role        domain.Role // Роль запрашивающего
	Status      *string     // Фильтр по статусу (опционально)
}

// GetStationBookingsRequest запрос на получение бронирований станции
type GetStationBookingsRequest struct {
	StationID       int64       // ID станции
	RequesterID     int64       // Кто запрашивает (владелец станции или admin)
	Role            domain.Role // Роль запрашивающего
	Date            *time.Time  // Фильтр по дате (опционально)
	Status          *string     // Фильтр по статусу (опционально)
	IncludeInactive bool        // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetStationBookingsRequest) ToDomainFilter() (domain.StationBookingsFilter, error) {
	filter := domain.StationBookingsFilter{
		StationID:       r.StationID,
		Date:            r.Date,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	StationID       int64   `json:"stationId"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentID       *string `json:"paymentId,omitempty"`

	VehicleType   *string `json:"vehicleType,omitempty"`
	VehicleBrand  *string `json:"vehicleBrand,omitempty"`
	VehicleModel  *string `json:"vehicleModel,omitempty"`
	VehicleNumber *string `json:"vehicleNumber,omitempty"`

	CancellationMessage *string `json:"cancellationMessage,omitempty"`
	CancelledAt         *string `json:"cancelledAt,omitempty"`
	CompletedAt         *string `json:"completedAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain бронирование в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		StationID:           b.StationID,
		BookingDate:         b.BookingDate.Format(domain.DateFormat),
		StartTime:           b.StartTime.String(),
		DurationMinutes:     b.DurationMinutes,
		Status:              string(b.Status),
		Amount:              b.Amount,
		PaymentMethod:       b.PaymentMethod,
		PaymentID:           b.PaymentID,
		VehicleType:         b.VehicleType,
		VehicleBrand:        b.VehicleBrand,
		VehicleModel:        b.VehicleModel,
		VehicleNumber:       b.VehicleNumber,
		CancellationMessage: b.CancellationMessage,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	if b.CompletedAt != nil {
		completedAt := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain бронирований в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	items := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = FromDomainBooking(b)
	}
	return &BookingListResponse{
		Bookings: items,
		Total:    len(items),
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	for _, valid := range domain.ValidStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}
