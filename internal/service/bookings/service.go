package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/booking"
	stationRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/station"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с жизненным циклом бронирований
type Service struct {
	bookingRepo BookingRepository
	stationRepo StationRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	stationRepo StationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		stationRepo: stationRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование; владелец станции видит
// бронирования своей станции; admin видит всё
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, role domain.Role) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkBookingAccess(ctx, booking, userID, role); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит только свою историю, admin - историю любого пользователя
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, requester=%d", req.UserID, req.RequesterID)

	if req.UserID != req.RequesterID && !req.Role.IsAdmin() {
		s.logger.Warn("GetUserBookings: access denied for requester=%d to user=%d history", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetStationBookings получает бронирования станции с фильтрацией
// Доступно владельцу станции и admin
//
// Примеры использования:
// - Все активные бронирования: GetStationBookings(ctx, &GetStationBookingsRequest{StationID: 123, ...})
// - Бронирования на дату: указать Date
// - Только завершенные: указать Status = "completed" и IncludeInactive = true
func (s *Service) GetStationBookings(ctx context.Context, req *models.GetStationBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStationBookings: fetching bookings for station=%d, requester=%d", req.StationID, req.RequesterID)

	// Проверяем права доступа к станции
	if err := s.checkStationAccess(ctx, req.StationID, req.RequesterID, req.Role); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStationBookings: invalid filter for station=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByStationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStationBookings: repository error for station=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: GetStationBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStationBookings: successfully fetched %d bookings for station=%d", len(bookings), req.StationID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование (cancelled_by_user),
// admin - любое (cancelled_by_admin). Повторная отмена не проходит:
// переходы из терминальных статусов запрещены
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	var cancelled *domain.Booking

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// Получаем бронирование с блокировкой строки
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			if booking.Status == domain.StatusCompleted {
				return ErrAlreadyCompleted
			}
			return ErrAlreadyCancelled
		}

		// Определяем статус отмены в зависимости от прав доступа
		var cancelStatus domain.BookingStatus
		switch {
		case booking.UserID == req.UserID:
			cancelStatus = domain.StatusCancelledByUser
		case req.Role.IsAdmin():
			cancelStatus = domain.StatusCancelledByAdmin
		default:
			return ErrAccessDenied
		}

		occupiedSlot := booking.OccupiesSlot()

		if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.Message); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				// Статус успел измениться между чтением и UPDATE
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Возвращаем слот в кеш доступности станции ровно один раз:
		// UPDATE с guard по статусу гарантирует, что сюда мы попадаем
		// только при фактическом переходе confirmed -> cancelled
		if occupiedSlot {
			if err := s.stationRepo.AdjustAvailableSlots(ctx, booking.StationID, 1); err != nil {
				return fmt.Errorf("%w: Cancel - failed to release slot: %v", ErrInternal, err)
			}
		}

		cancelled, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logCancelError(bookingID, req.UserID, err)
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelled.Status)
	return models.FromDomainBooking(cancelled), nil
}

// Complete завершает бронирование после фактической зарядки
// Доступно только владельцу станции бронирования. Admin завершать не может:
// завершение подтверждает оказанную услугу, а не модерирует её
func (s *Service) Complete(ctx context.Context, bookingID int64, req *models.CompleteBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", bookingID, req.UserID)

	var completed *domain.Booking

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCompleted() {
			if booking.Status == domain.StatusCompleted {
				return ErrAlreadyCompleted
			}
			return ErrAlreadyCancelled
		}

		station, err := s.stationRepo.GetByID(ctx, booking.StationID)
		if err != nil {
			if errors.Is(err, stationRepo.ErrStationNotFound) {
				return ErrStationNotFound
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if !station.IsOwnedBy(req.UserID) {
			return ErrAccessDenied
		}

		occupiedSlot := booking.OccupiesSlot()

		if err := s.bookingRepo.Complete(ctx, bookingID); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrAlreadyCompleted
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if occupiedSlot {
			if err := s.stationRepo.AdjustAvailableSlots(ctx, booking.StationID, 1); err != nil {
				return fmt.Errorf("%w: Complete - failed to release slot: %v", ErrInternal, err)
			}
		}

		completed, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logCompleteError(bookingID, req.UserID, err)
		return nil, err
	}

	s.logger.Info("Complete: successfully completed booking id=%d", bookingID)
	return models.FromDomainBooking(completed), nil
}

// Вспомогательные методы

// checkBookingAccess проверяет, что пользователь имеет доступ к бронированию
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, userID int64, role domain.Role) error {
	if booking.UserID == userID {
		return nil
	}
	if role.IsAdmin() {
		return nil
	}

	// Владелец станции видит бронирования своей станции
	station, err := s.stationRepo.GetByID(ctx, booking.StationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkBookingAccess - repository error: %v", ErrInternal, err)
	}
	if !station.IsOwnedBy(userID) {
		return ErrAccessDenied
	}

	return nil
}

// checkStationAccess проверяет, что пользователь является владельцем станции или admin
func (s *Service) checkStationAccess(ctx context.Context, stationID int64, userID int64, role domain.Role) error {
	if role.IsAdmin() {
		return nil
	}

	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("checkStationAccess: station id=%d not found", stationID)
			return ErrStationNotFound
		}
		s.logger.Error("checkStationAccess: failed to get station id=%d: %v", stationID, err)
		return fmt.Errorf("%w: checkStationAccess - repository error: %v", ErrInternal, err)
	}

	if !station.IsOwnedBy(userID) {
		s.logger.Warn("checkStationAccess: user=%d is not owner of station id=%d", userID, stationID)
		return ErrAccessDenied
	}

	return nil
}

func (s *Service) logCancelError(bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		s.logger.Warn("Cancel: booking id=%d not found", bookingID)
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", userID, bookingID)
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrAlreadyCompleted):
		s.logger.Warn("Cancel: booking id=%d is already in terminal status", bookingID)
	default:
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
	}
}

func (s *Service) logCompleteError(bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		s.logger.Warn("Complete: booking id=%d not found", bookingID)
	case errors.Is(err, ErrStationNotFound):
		s.logger.Warn("Complete: station for booking id=%d not found", bookingID)
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("Complete: access denied for user=%d to complete booking id=%d", userID, bookingID)
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrAlreadyCompleted):
		s.logger.Warn("Complete: booking id=%d is already in terminal status", bookingID)
	default:
		s.logger.Error("Complete: failed to complete booking id=%d: %v", bookingID, err)
	}
}
