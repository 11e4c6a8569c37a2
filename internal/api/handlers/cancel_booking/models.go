package cancel_booking

import (
	"github.com/m04kA/EVC-BookingService/internal/api/middleware"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Message *string `json:"message,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(identity middleware.Identity) *models.CancelBookingRequest {
	message := ""
	if r.Message != nil {
		message = *r.Message
	}

	return &models.CancelBookingRequest{
		UserID:  identity.UserID,
		Role:    identity.Role,
		Message: message,
	}
}
