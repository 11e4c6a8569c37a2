package domain

import (
	"time"

	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed        BookingStatus = "confirmed"
	StatusCompleted        BookingStatus = "completed"
	StatusCancelledByUser  BookingStatus = "cancelled_by_user"
	StatusCancelledByAdmin BookingStatus = "cancelled_by_admin"
)

// Booking represents a charging slot reservation
type Booking struct {
	ID        int64
	UserID    int64
	StationID int64

	// Окно бронирования: дата + время начала + длительность.
	// Занятость считается по точному совпадению (booking_date, start_time),
	// duration_minutes хранится для отображения и будущего interval-overlap.
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	Status BookingStatus

	// Платежные данные - проходят через сервис прозрачно, не валидируются
	Amount        float64
	PaymentMethod string
	PaymentID     *string

	// Denormalized vehicle data for history
	VehicleType   *string
	VehicleBrand  *string
	VehicleModel  *string
	VehicleNumber *string

	CancellationMessage *string
	CancelledAt         *time.Time
	CompletedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking counts against station capacity.
// Only confirmed bookings occupy a slot; completed and cancelled ones release it.
func (b *Booking) OccupiesSlot() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled by anyone
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByAdmin
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.IsCancelled()
}

// CanBeCancelled returns true if the booking can transition to a cancelled state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeCompleted returns true if the booking can transition to completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// StationBookingsFilter фильтр для получения бронирований станции
type StationBookingsFilter struct {
	StationID       int64             // Обязательный параметр
	Date            *time.Time        // Фильтр по дате (опционально)
	StartTime       *types.TimeString // Фильтр по точному окну (опционально, вместе с Date)
	Status          *BookingStatus    // Фильтр по статусу (опционально)
	IncludeInactive bool              // Включать ли завершенные и отмененные бронирования
}
