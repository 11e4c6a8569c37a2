package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings/models"
)

// MockBookingRepository мок репозитория бронирований
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByStationWithFilter(ctx context.Context, filter domain.StationBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, message string) error {
	args := m.Called(ctx, id, status, message)
	return args.Error(0)
}

func (m *MockBookingRepository) Complete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStationRepository мок репозитория станций
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) AdjustAvailableSlots(ctx context.Context, id int64, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (l *noopLogger) Info(format string, v ...interface{})  {}
func (l *noopLogger) Warn(format string, v ...interface{})  {}
func (l *noopLogger) Error(format string, v ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              42,
		UserID:          1,
		StationID:       10,
		BookingDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func newTestService(bookingRepoMock *MockBookingRepository, stationRepoMock *MockStationRepository) *Service {
	return NewService(bookingRepoMock, stationRepoMock, &fakeTxManager{}, &noopLogger{})
}

func TestService_Cancel_ByOwner(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	cancelled := confirmedBooking()
	cancelled.Status = domain.StatusCancelledByUser
	message := "не смогу приехать"
	cancelled.CancellationMessage = &message

	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil).Once()
	bookingRepoMock.On("Cancel", mock.Anything, int64(42), domain.StatusCancelledByUser, message).Return(nil)
	stationRepoMock.On("AdjustAvailableSlots", mock.Anything, int64(10), 1).Return(nil).Once()
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(cancelled, nil).Once()

	svc := newTestService(bookingRepoMock, stationRepoMock)

	resp, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID:  1,
		Role:    domain.RoleUser,
		Message: message,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByUser), resp.Status)
	require.NotNil(t, resp.CancellationMessage)
	assert.Equal(t, message, *resp.CancellationMessage)
	// Слот возвращается в кеш ровно один раз
	stationRepoMock.AssertNumberOfCalls(t, "AdjustAvailableSlots", 1)
}

func TestService_Cancel_ByAdmin(t *testing.T) {
	// Admin отменяет чужое бронирование со статусом cancelled_by_admin
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	cancelled := confirmedBooking()
	cancelled.Status = domain.StatusCancelledByAdmin

	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil).Once()
	bookingRepoMock.On("Cancel", mock.Anything, int64(42), domain.StatusCancelledByAdmin, "нарушение правил").Return(nil)
	stationRepoMock.On("AdjustAvailableSlots", mock.Anything, int64(10), 1).Return(nil)
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(cancelled, nil).Once()

	svc := newTestService(bookingRepoMock, stationRepoMock)

	resp, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID:  999,
		Role:    domain.RoleAdmin,
		Message: "нарушение правил",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByAdmin), resp.Status)
}

func TestService_Cancel_ForeignBookingForbidden(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 2,
		Role:   domain.RoleUser,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	bookingRepoMock.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	stationRepoMock.AssertNotCalled(t, "AdjustAvailableSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	// Повторная отмена не проходит и не трогает кеш доступности
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	booking.Status = domain.StatusCancelledByUser
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleUser,
	})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	bookingRepoMock.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	stationRepoMock.AssertNotCalled(t, "AdjustAvailableSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_AlreadyCompleted(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	booking.Status = domain.StatusCompleted
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleUser,
	})

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	stationRepoMock.AssertNotCalled(t, "AdjustAvailableSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_NotFound(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	bookingRepoMock.On("GetByID", mock.Anything, int64(404)).Return(nil, bookingRepo.ErrBookingNotFound)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Cancel(context.Background(), 404, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleUser,
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Complete_ByStationOwner(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	completed := confirmedBooking()
	completed.Status = domain.StatusCompleted

	station := &domain.Station{ID: 10, OwnerID: 77, TotalSlots: 2}

	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil).Once()
	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(station, nil)
	bookingRepoMock.On("Complete", mock.Anything, int64(42)).Return(nil)
	stationRepoMock.On("AdjustAvailableSlots", mock.Anything, int64(10), 1).Return(nil).Once()
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(completed, nil).Once()

	svc := newTestService(bookingRepoMock, stationRepoMock)

	resp, err := svc.Complete(context.Background(), 42, &models.CompleteBookingRequest{
		UserID: 77,
		Role:   domain.RoleStationMaster,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	stationRepoMock.AssertNumberOfCalls(t, "AdjustAvailableSlots", 1)
}

func TestService_Complete_AdminForbidden(t *testing.T) {
	// Завершает только владелец станции, admin не может
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	station := &domain.Station{ID: 10, OwnerID: 77, TotalSlots: 2}

	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)
	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(station, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Complete(context.Background(), 42, &models.CompleteBookingRequest{
		UserID: 999,
		Role:   domain.RoleAdmin,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	bookingRepoMock.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	stationRepoMock.AssertNotCalled(t, "AdjustAvailableSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Complete_AlreadyCompleted(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	booking := confirmedBooking()
	booking.Status = domain.StatusCompleted
	bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	_, err := svc.Complete(context.Background(), 42, &models.CompleteBookingRequest{
		UserID: 77,
		Role:   domain.RoleStationMaster,
	})

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	stationRepoMock.AssertNotCalled(t, "AdjustAvailableSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetByID_AccessRules(t *testing.T) {
	station := &domain.Station{ID: 10, OwnerID: 77}

	tests := []struct {
		name        string
		userID      int64
		role        domain.Role
		stationRead bool
		expectErr   error
	}{
		{name: "booking owner", userID: 1, role: domain.RoleUser},
		{name: "admin", userID: 999, role: domain.RoleAdmin},
		{name: "station owner", userID: 77, role: domain.RoleStationMaster, stationRead: true},
		{name: "stranger", userID: 2, role: domain.RoleUser, stationRead: true, expectErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepoMock := new(MockBookingRepository)
			stationRepoMock := new(MockStationRepository)

			bookingRepoMock.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)
			if tt.stationRead {
				stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(station, nil)
			}

			svc := newTestService(bookingRepoMock, stationRepoMock)

			resp, err := svc.GetByID(context.Background(), 42, tt.userID, tt.role)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), resp.ID)
		})
	}
}

func TestService_GetUserBookings_AccessRules(t *testing.T) {
	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	bookingRepoMock.On("GetByUserID", mock.Anything, int64(1), (*domain.BookingStatus)(nil)).
		Return([]*domain.Booking{confirmedBooking()}, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	// Свою историю смотреть можно
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:      1,
		RequesterID: 1,
		Role:        domain.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// Чужую - нельзя
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:      1,
		RequesterID: 2,
		Role:        domain.RoleUser,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Admin видит историю любого пользователя
	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:      1,
		RequesterID: 999,
		Role:        domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestService_GetUserBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockStationRepository))

	badStatus := "pending"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:      1,
		RequesterID: 1,
		Role:        domain.RoleUser,
		Status:      &badStatus,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetStationBookings_OwnerOnly(t *testing.T) {
	station := &domain.Station{ID: 10, OwnerID: 77}

	bookingRepoMock := new(MockBookingRepository)
	stationRepoMock := new(MockStationRepository)

	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(station, nil)
	bookingRepoMock.On("GetByStationWithFilter", mock.Anything, mock.Anything).
		Return([]*domain.Booking{confirmedBooking()}, nil)

	svc := newTestService(bookingRepoMock, stationRepoMock)

	resp, err := svc.GetStationBookings(context.Background(), &models.GetStationBookingsRequest{
		StationID:   10,
		RequesterID: 77,
		Role:        domain.RoleStationMaster,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = svc.GetStationBookings(context.Background(), &models.GetStationBookingsRequest{
		StationID:   10,
		RequesterID: 2,
		Role:        domain.RoleUser,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
