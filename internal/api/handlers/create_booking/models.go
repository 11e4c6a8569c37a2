package create_booking

import (
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	createBooking "github.com/m04kA/EVC-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StationID       int64   `json:"stationId"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentID       *string `json:"paymentId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case (с парсингом даты и времени)
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:          userID,
		StationID:       r.StationID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		Amount:          r.Amount,
		PaymentMethod:   r.PaymentMethod,
		PaymentID:       r.PaymentID,
	}, nil
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	StationID       int64   `json:"stationId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentID       *string `json:"paymentId,omitempty"`

	VehicleType   *string `json:"vehicleType,omitempty"`
	VehicleBrand  *string `json:"vehicleBrand,omitempty"`
	VehicleModel  *string `json:"vehicleModel,omitempty"`
	VehicleNumber *string `json:"vehicleNumber,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		StationID:       resp.StationID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Amount:          resp.Amount,
		PaymentMethod:   resp.PaymentMethod,
		PaymentID:       resp.PaymentID,
		VehicleType:     resp.VehicleType,
		VehicleBrand:    resp.VehicleBrand,
		VehicleModel:    resp.VehicleModel,
		VehicleNumber:   resp.VehicleNumber,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
