package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	stationRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/station"
	userClient "github.com/m04kA/EVC-BookingService/internal/integrations/userservice"
)

// UseCase use case создания бронирования.
//
// Допуск бронирования - единственное место, где инвариант вместимости
// (число подтвержденных бронирований окна никогда не превышает total_slots)
// может быть нарушен гонкой count-then-insert. Поэтому проверка и вставка
// выполняются в одной SERIALIZABLE транзакции, начинающейся с блокировки
// строки станции: конкурирующие допуски по одной станции сериализуются,
// и ровно один из двух одновременных запросов на последнее место проходит.
type UseCase struct {
	bookingRepo  BookingRepository
	stationRepo  StationRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	stationRepo StationRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		stationRepo:  stationRepo,
		userClient:   userClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, station=%d, date=%s, time=%s",
		req.UserID, req.StationID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем дату до любых походов в БД
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем выбранный электромобиль пользователя (вне транзакции - HTTP вызов).
	// При недоступности UserService бронирование создается без данных ТС.
	var vehicle *userClient.Vehicle
	v, err := uc.userClient.GetSelectedVehicleWithGracefulDegradation(ctx, req.UserID)
	switch {
	case err == nil:
		vehicle = v
	case errors.Is(err, userClient.ErrVehicleNotFound), errors.Is(err, userClient.ErrServiceDegraded):
		uc.logger.Warn("CreateBooking: proceeding without vehicle data for user=%d: %v", req.UserID, err)
	default:
		uc.logger.Error("CreateBooking: failed to get vehicle for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Транзакция допуска: блокировка станции -> подсчет занятости -> вставка -> ledger
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Станция с блокировкой FOR UPDATE - точка сериализации допусков
		station, err := uc.stationRepo.GetByID(txCtx, req.StationID)
		if err != nil {
			if errors.Is(err, stationRepo.ErrStationNotFound) {
				uc.logger.Warn("CreateBooking: station id=%d not found", req.StationID)
				return ErrStationNotFound
			}
			uc.logger.Error("CreateBooking: failed to get station id=%d: %v", req.StationID, err)
			return fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
		}

		if !station.IsBookable() {
			uc.logger.Warn("CreateBooking: station id=%d is not bookable (status=%s, approval=%s)",
				station.ID, station.Status, station.ApprovalStatus)
			return ErrStationNotBookable
		}

		// 4.2. Длительность окна: по умолчанию - шаг сетки станции
		durationMinutes := req.DurationMinutes
		if durationMinutes == 0 {
			durationMinutes = station.SlotDurationMinutes
		}

		// 4.3. Окно обязано лежать на сетке, в рабочих часах и еще не закончиться
		if err := validateWindow(station, req.StartTime, durationMinutes); err != nil {
			uc.logger.Warn("CreateBooking: window validation failed: %v", err)
			return err
		}
		if err := validateWindowNotEnded(req.Date, req.StartTime, durationMinutes, now); err != nil {
			uc.logger.Warn("CreateBooking: window already ended: %v", err)
			return err
		}

		// 4.4. Занятость окна считаем по строкам bookings, НЕ по кэшу available_slots
		occupied, err := uc.bookingRepo.CountConfirmedByWindow(txCtx, req.StationID, req.Date, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count window occupancy: %v", err)
			return fmt.Errorf("%w: failed to count window occupancy: %v", ErrInternal, err)
		}

		if occupied >= station.TotalSlots {
			uc.logger.Warn("CreateBooking: window full, %d/%d slots taken", occupied, station.TotalSlots)
			return &CapacityError{Occupied: occupied, Total: station.TotalSlots}
		}

		uc.logger.Info("CreateBooking: window available, %d/%d slots taken", occupied, station.TotalSlots)

		// 4.5. Создаем подтвержденное бронирование с денормализацией данных ТС
		booking := &domain.Booking{
			UserID:          req.UserID,
			StationID:       req.StationID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: durationMinutes,
			Status:          domain.StatusConfirmed,
			Amount:          req.Amount,
			PaymentMethod:   req.PaymentMethod,
			PaymentID:       req.PaymentID,
		}
		if vehicle != nil {
			booking.VehicleType = &vehicle.Type
			booking.VehicleBrand = &vehicle.Brand
			booking.VehicleModel = &vehicle.Model
			booking.VehicleNumber = &vehicle.Number
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.6. Кэшированный счетчик станции уменьшаем в той же транзакции,
		// чтобы витрина не расходилась с строками bookings
		if err := uc.stationRepo.AdjustAvailableSlots(txCtx, req.StationID, -1); err != nil {
			uc.logger.Error("CreateBooking: failed to adjust available slots: %v", err)
			return fmt.Errorf("%w: failed to adjust available slots: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		StationID:       result.StationID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Amount:          result.Amount,
		PaymentMethod:   result.PaymentMethod,
		PaymentID:       result.PaymentID,
		VehicleType:     result.VehicleType,
		VehicleBrand:    result.VehicleBrand,
		VehicleModel:    result.VehicleModel,
		VehicleNumber:   result.VehicleNumber,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
