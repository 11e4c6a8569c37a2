package stations

import (
	"context"
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) (*domain.Station, error)
	GetByID(ctx context.Context, id int64) (*domain.Station, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Station, error)
	GetAllIDs(ctx context.Context) ([]int64, error)
	SetAvailableSlots(ctx context.Context, id int64, value int) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountConfirmedByWindow(ctx context.Context, stationID int64, date time.Time, startTime types.TimeString) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
