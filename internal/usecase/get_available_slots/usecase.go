package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	stationRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/station"
)

// UseCase use case получения слотов станции на дату.
//
// Результат - витрина: он может отставать от строк bookings на время
// между чтением и ответом, и НИКОГДА не используется для решения о допуске.
// Допуск всегда пересчитывает занятость сам, в своей транзакции.
type UseCase struct {
	bookingRepo BookingRepository
	stationRepo StationRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	stationRepo StationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		stationRepo: stationRepo,
		logger:      logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: station=%d, date=%s",
		req.StationID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем станцию
	station, err := uc.stationRepo.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			uc.logger.Warn("GetAvailableSlots: station id=%d not found", req.StationID)
			return nil, ErrStationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get station id=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
	}

	// 3. Генерируем сетку окон
	slotStarts, err := generateTimeSlots(station)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	if len(slotStarts) == 0 {
		uc.logger.Info("GetAvailableSlots: station id=%d has no slots on %s",
			req.StationID, req.Date.Format(domain.DateFormat))
		return &Response{
			StationID: req.StationID,
			Date:      req.Date,
			Slots:     []domain.Slot{},
		}, nil
	}

	// 4. Одним чтением берем все подтвержденные бронирования станции на дату
	filter := domain.StationBookingsFilter{
		StationID:       req.StationID,
		Date:            &req.Date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByStationWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Вычисляем занятость каждого окна
	slots := calculateOccupancy(slotStarts, station, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for station=%d, date=%s",
		len(slots), req.StationID, req.Date.Format(domain.DateFormat))

	return &Response{
		StationID: req.StationID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}
