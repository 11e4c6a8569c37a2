package get_station_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVC-BookingService/internal/api/handlers"
	"github.com/m04kA/EVC-BookingService/internal/api/middleware"
	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings/models"
)

const (
	msgUnauthorized     = "требуется аутентификация"
	msgInvalidStationID = "некорректный ID станции"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter    = "некорректные параметры фильтрации"
	msgStationNotFound  = "станция не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}/bookings
// Query params: date (optional, YYYY-MM-DD), status (optional), includeInactive (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	stationID, err := strconv.ParseInt(vars["stationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /stations/{id}/bookings - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	req := &models.GetStationBookingsRequest{
		StationID:   stationID,
		RequesterID: identity.UserID,
		Role:        identity.Role,
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /stations/{id}/bookings - Invalid date %q: %v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeInactive = r.URL.Query().Get("includeInactive") == "true"

	result, err := h.service.GetStationBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrStationNotFound):
			h.logger.Warn("GET /stations/{id}/bookings - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /stations/{id}/bookings - Access denied: station_id=%d, user_id=%d",
				stationID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /stations/{id}/bookings - Invalid filter: station_id=%d", stationID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /stations/{id}/bookings - Failed to get bookings: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id}/bookings - Bookings retrieved: station_id=%d, count=%d",
		stationID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
