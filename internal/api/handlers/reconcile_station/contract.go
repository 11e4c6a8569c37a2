package reconcile_station

import (
	"context"

	"github.com/m04kA/EVC-BookingService/internal/service/stations/models"
)

type StationService interface {
	Reconcile(ctx context.Context, stationID int64) (*models.ReconcileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
