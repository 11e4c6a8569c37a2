package reconcile_station

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/EVC-BookingService/internal/api/handlers"
	"github.com/m04kA/EVC-BookingService/internal/api/middleware"
	"github.com/m04kA/EVC-BookingService/internal/service/stations"
)

const (
	msgUnauthorized     = "требуется аутентификация"
	msgInvalidStationID = "некорректный ID станции"
	msgStationNotFound  = "станция не найдена"
	msgForbidden        = "пересчет доступен только администраторам"
)

type Handler struct {
	service StationService
	logger  Logger
}

func NewHandler(service StationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/stations/{stationId}/reconcile
// Только для администраторов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if !identity.Role.IsAdmin() {
		h.logger.Warn("POST /stations/{id}/reconcile - Access denied: user_id=%d, role=%s",
			identity.UserID, identity.Role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	vars := mux.Vars(r)
	stationID, err := strconv.ParseInt(vars["stationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /stations/{id}/reconcile - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	result, err := h.service.Reconcile(r.Context(), stationID)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrStationNotFound):
			h.logger.Warn("POST /stations/{id}/reconcile - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		default:
			h.logger.Error("POST /stations/{id}/reconcile - Failed to reconcile: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations/{id}/reconcile - Reconciled: station_id=%d, available_slots=%d",
		stationID, result.AvailableSlots)
	handlers.RespondJSON(w, http.StatusOK, result)
}
