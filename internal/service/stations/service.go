package stations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	stationRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/station"
	"github.com/m04kA/EVC-BookingService/internal/service/stations/models"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// Service сервис для работы со станциями и кешем доступности
type Service struct {
	stationRepo  StationRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса станций
func NewService(
	stationRepo StationRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		stationRepo:  stationRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create регистрирует новую станцию
// Станция создается со статусом модерации pending и не принимает бронирования,
// пока не будет одобрена
func (s *Service) Create(ctx context.Context, req *models.CreateStationRequest) (*models.StationResponse, error) {
	s.logger.Info("Create: creating station %q for owner=%d", req.Name, req.OwnerID)

	station, err := s.buildStation(req)
	if err != nil {
		s.logger.Warn("Create: invalid station data for owner=%d: %v", req.OwnerID, err)
		return nil, err
	}

	created, err := s.stationRepo.Create(ctx, station)
	if err != nil {
		s.logger.Error("Create: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created station id=%d for owner=%d", created.ID, created.OwnerID)
	return models.FromDomainStation(created), nil
}

// GetByID получает станцию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.StationResponse, error) {
	s.logger.Info("GetByID: fetching station id=%d", id)

	station, err := s.stationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("GetByID: station id=%d not found", id)
			return nil, ErrStationNotFound
		}
		s.logger.Error("GetByID: repository error for station id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStation(station), nil
}

// GetByOwnerID получает станции владельца
func (s *Service) GetByOwnerID(ctx context.Context, ownerID int64) (*models.StationListResponse, error) {
	s.logger.Info("GetByOwnerID: fetching stations for owner=%d", ownerID)

	stations, err := s.stationRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		s.logger.Error("GetByOwnerID: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetByOwnerID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStationList(stations), nil
}

// Reconcile пересчитывает кеш available_slots станции по строкам bookings.
// Кеш справочный: допуск бронирований всегда считается по bookings, поэтому
// дрейф кеша не влияет на корректность, только на витрину. Пересчет идет по
// текущему окну сетки: available = total - count(confirmed на окно, содержащее
// "сейчас"). Вне рабочих часов станция свободна целиком
func (s *Service) Reconcile(ctx context.Context, stationID int64) (*models.ReconcileResponse, error) {
	s.logger.Info("Reconcile: reconciling available slots for station=%d", stationID)

	var value int

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		station, err := s.stationRepo.GetByID(ctx, stationID)
		if err != nil {
			if errors.Is(err, stationRepo.ErrStationNotFound) {
				return ErrStationNotFound
			}
			return fmt.Errorf("%w: Reconcile - repository error: %v", ErrInternal, err)
		}

		now := s.timeProvider.Now()

		bucket, ok, err := currentBucket(station, now)
		if err != nil {
			return fmt.Errorf("%w: Reconcile - invalid station schedule: %v", ErrInternal, err)
		}

		value = station.TotalSlots
		if ok {
			// booking_date - колонка DATE, бронирования пишутся с полночной датой;
			// сравнивать нужно с полночью, а не с полным wall-clock временем
			bookingDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

			occupied, err := s.bookingRepo.CountConfirmedByWindow(ctx, stationID, bookingDate, bucket)
			if err != nil {
				return fmt.Errorf("%w: Reconcile - repository error: %v", ErrInternal, err)
			}
			value = station.TotalSlots - occupied
			if value < 0 {
				value = 0
			}
		}

		if err := s.stationRepo.SetAvailableSlots(ctx, stationID, value); err != nil {
			return fmt.Errorf("%w: Reconcile - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStationNotFound) {
			s.logger.Warn("Reconcile: station id=%d not found", stationID)
		} else {
			s.logger.Error("Reconcile: failed for station=%d: %v", stationID, err)
		}
		return nil, err
	}

	s.logger.Info("Reconcile: station=%d available_slots=%d", stationID, value)
	return &models.ReconcileResponse{StationID: stationID, AvailableSlots: value}, nil
}

// ReconcileAll пересчитывает кеш доступности всех станций.
// Используется фоновым реконсилятором; ошибки отдельных станций логируются
// и не прерывают обход
func (s *Service) ReconcileAll(ctx context.Context) error {
	ids, err := s.stationRepo.GetAllIDs(ctx)
	if err != nil {
		s.logger.Error("ReconcileAll: failed to list stations: %v", err)
		return fmt.Errorf("%w: ReconcileAll - repository error: %v", ErrInternal, err)
	}

	for _, id := range ids {
		if _, err := s.Reconcile(ctx, id); err != nil {
			s.logger.Error("ReconcileAll: station=%d reconcile failed: %v", id, err)
		}
	}

	s.logger.Info("ReconcileAll: swept %d stations", len(ids))
	return nil
}

// Вспомогательные методы

// buildStation валидирует запрос и собирает domain станцию с дефолтами
func (s *Service) buildStation(req *models.CreateStationRequest) (*domain.Station, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.TotalSlots < domain.MinTotalSlots || req.TotalSlots > domain.MaxTotalSlots {
		return nil, fmt.Errorf("%w: total slots must be between %d and %d",
			ErrInvalidInput, domain.MinTotalSlots, domain.MaxTotalSlots)
	}

	openTimeStr := req.OpenTime
	if openTimeStr == "" {
		openTimeStr = domain.DefaultOpenTime
	}
	closeTimeStr := req.CloseTime
	if closeTimeStr == "" {
		closeTimeStr = domain.DefaultCloseTime
	}

	openTime, err := types.NewTimeStringFromString(openTimeStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid open time: %v", ErrInvalidInput, err)
	}
	closeTime, err := types.NewTimeStringFromString(closeTimeStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid close time: %v", ErrInvalidInput, err)
	}
	if !openTime.IsBefore(closeTime) {
		return nil, fmt.Errorf("%w: open time must be before close time", ErrInvalidInput)
	}

	slotDuration := req.SlotDurationMinutes
	if slotDuration == 0 {
		slotDuration = domain.DefaultSlotDurationMinutes
	}
	if slotDuration < domain.MinSlotDurationMinutes || slotDuration > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	return &domain.Station{
		OwnerID:             req.OwnerID,
		Name:                req.Name,
		Address:             req.Address,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		ConnectorTypes:      req.ConnectorTypes,
		PowerOutput:         req.PowerOutput,
		PricePerKwh:         req.PricePerKwh,
		OpenTime:            openTime,
		CloseTime:           closeTime,
		SlotDurationMinutes: slotDuration,
		Status:              domain.StationStatusActive,
		ApprovalStatus:      domain.ApprovalStatusPending,
		TotalSlots:          req.TotalSlots,
		AvailableSlots:      req.TotalSlots,
	}, nil
}

// currentBucket возвращает начало окна сетки станции, содержащего момент now.
// Второй результат false, если станция в это время закрыта
func currentBucket(station *domain.Station, now time.Time) (types.TimeString, bool, error) {
	openMinutes, err := station.OpenTime.TotalMinutes()
	if err != nil {
		return "", false, err
	}
	closeMinutes, err := station.CloseTime.TotalMinutes()
	if err != nil {
		return "", false, err
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if nowMinutes < openMinutes || nowMinutes >= closeMinutes {
		return "", false, nil
	}

	offset := ((nowMinutes - openMinutes) / station.SlotDurationMinutes) * station.SlotDurationMinutes
	bucketStart := openMinutes + offset
	// Неполное окно в конце рабочего дня не бронируется, считаем его закрытым
	if bucketStart+station.SlotDurationMinutes > closeMinutes {
		return "", false, nil
	}

	bucket, err := station.OpenTime.AddMinutes(offset)
	if err != nil {
		return "", false, err
	}
	return bucket, true, nil
}
