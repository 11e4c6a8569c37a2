package create_booking

import (
	"time"

	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID          int64            // ID пользователя (из identity middleware)
	StationID       int64            // ID станции
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала окна (например, "10:00")
	DurationMinutes int              // Длительность окна; 0 = шаг сетки станции

	// Платежные данные - прозрачный pass-through
	Amount        float64
	PaymentMethod string
	PaymentID     *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	StationID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	Amount        float64
	PaymentMethod string
	PaymentID     *string

	// Денормализованные данные электромобиля
	VehicleType   *string
	VehicleBrand  *string
	VehicleModel  *string
	VehicleNumber *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
