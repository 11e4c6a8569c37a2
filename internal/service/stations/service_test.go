package stations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	stationRepo "github.com/m04kA/EVC-BookingService/internal/infra/storage/station"
	"github.com/m04kA/EVC-BookingService/internal/service/stations/models"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// MockStationRepository мок репозитория станций
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) Create(ctx context.Context, station *domain.Station) (*domain.Station, error) {
	args := m.Called(ctx, station)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Station, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Station), args.Error(1)
}

func (m *MockStationRepository) GetAllIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStationRepository) SetAvailableSlots(ctx context.Context, id int64, value int) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

// MockBookingRepository мок репозитория бронирований
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountConfirmedByWindow(ctx context.Context, stationID int64, date time.Time, startTime types.TimeString) (int, error) {
	args := m.Called(ctx, stationID, date, startTime)
	return args.Int(0), args.Error(1)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedTimeProvider возвращает фиксированное время
type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (l *noopLogger) Info(format string, v ...interface{})  {}
func (l *noopLogger) Warn(format string, v ...interface{})  {}
func (l *noopLogger) Error(format string, v ...interface{}) {}

func testStation() *domain.Station {
	return &domain.Station{
		ID:                  10,
		OwnerID:             77,
		Name:                "EVC Central",
		OpenTime:            "08:00",
		CloseTime:           "22:00",
		SlotDurationMinutes: 60,
		Status:              domain.StationStatusActive,
		ApprovalStatus:      domain.ApprovalStatusApproved,
		TotalSlots:          4,
		AvailableSlots:      4,
	}
}

func newTestService(stationRepoMock *MockStationRepository, bookingRepoMock *MockBookingRepository, now time.Time) *Service {
	return NewService(stationRepoMock, bookingRepoMock, &fakeTxManager{}, &fixedTimeProvider{now: now}, &noopLogger{})
}

func TestService_Create_PendingApproval(t *testing.T) {
	stationRepoMock := new(MockStationRepository)

	stationRepoMock.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Station) bool {
		return s.ApprovalStatus == domain.ApprovalStatusPending &&
			s.Status == domain.StationStatusActive &&
			s.AvailableSlots == s.TotalSlots &&
			s.OpenTime == types.TimeString(domain.DefaultOpenTime) &&
			s.SlotDurationMinutes == domain.DefaultSlotDurationMinutes
	})).Return(testStation(), nil)

	svc := newTestService(stationRepoMock, new(MockBookingRepository), time.Now())

	resp, err := svc.Create(context.Background(), &models.CreateStationRequest{
		OwnerID:    77,
		Name:       "EVC Central",
		TotalSlots: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	stationRepoMock.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.CreateStationRequest
	}{
		{name: "empty name", req: &models.CreateStationRequest{OwnerID: 1, TotalSlots: 2}},
		{name: "zero total slots", req: &models.CreateStationRequest{OwnerID: 1, Name: "x"}},
		{name: "too many slots", req: &models.CreateStationRequest{OwnerID: 1, Name: "x", TotalSlots: 500}},
		{name: "bad open time", req: &models.CreateStationRequest{OwnerID: 1, Name: "x", TotalSlots: 2, OpenTime: "25:99"}},
		{name: "open after close", req: &models.CreateStationRequest{OwnerID: 1, Name: "x", TotalSlots: 2, OpenTime: "20:00", CloseTime: "08:00"}},
		{name: "slot duration too small", req: &models.CreateStationRequest{OwnerID: 1, Name: "x", TotalSlots: 2, SlotDurationMinutes: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(new(MockStationRepository), new(MockBookingRepository), time.Now())

			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Reconcile_OpenHours(t *testing.T) {
	// В 10:30 текущее окно 10:00, два подтвержденных -> available = 4 - 2
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	stationRepoMock := new(MockStationRepository)
	bookingRepoMock := new(MockBookingRepository)

	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(testStation(), nil)
	bookingRepoMock.On("CountConfirmedByWindow", mock.Anything, int64(10), midnight, types.TimeString("10:00")).
		Return(2, nil)
	stationRepoMock.On("SetAvailableSlots", mock.Anything, int64(10), 2).Return(nil)

	svc := newTestService(stationRepoMock, bookingRepoMock, now)

	resp, err := svc.Reconcile(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AvailableSlots)
	stationRepoMock.AssertExpectations(t)
	bookingRepoMock.AssertExpectations(t)
}

// booking_date - колонка DATE: бронирования вставляются с полночной датой,
// поэтому подсчет занятости обязан получать полночь, а не полный wall-clock
// момент - иначе равенство по дате никогда не сработает и пересчет затрет
// счетчик значением total_slots
func TestService_Reconcile_CountsByMidnightDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 33, 12, 0, time.UTC)

	stationRepoMock := new(MockStationRepository)
	bookingRepoMock := new(MockBookingRepository)

	var gotDate time.Time
	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(testStation(), nil)
	bookingRepoMock.On("CountConfirmedByWindow", mock.Anything, int64(10), mock.MatchedBy(func(date time.Time) bool {
		gotDate = date
		return true
	}), types.TimeString("14:00")).Return(3, nil)
	stationRepoMock.On("SetAvailableSlots", mock.Anything, int64(10), 1).Return(nil)

	svc := newTestService(stationRepoMock, bookingRepoMock, now)

	resp, err := svc.Reconcile(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AvailableSlots)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), gotDate)
}

func TestService_Reconcile_ClosedHours(t *testing.T) {
	// Вне рабочих часов станция свободна целиком, подсчет не выполняется
	now := time.Date(2026, 3, 10, 23, 15, 0, 0, time.UTC)

	stationRepoMock := new(MockStationRepository)
	bookingRepoMock := new(MockBookingRepository)

	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(testStation(), nil)
	stationRepoMock.On("SetAvailableSlots", mock.Anything, int64(10), 4).Return(nil)

	svc := newTestService(stationRepoMock, bookingRepoMock, now)

	resp, err := svc.Reconcile(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.AvailableSlots)
	bookingRepoMock.AssertNotCalled(t, "CountConfirmedByWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Reconcile_NeverNegative(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	stationRepoMock := new(MockStationRepository)
	bookingRepoMock := new(MockBookingRepository)

	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(testStation(), nil)
	bookingRepoMock.On("CountConfirmedByWindow", mock.Anything, int64(10), midnight, types.TimeString("10:00")).
		Return(10, nil)
	stationRepoMock.On("SetAvailableSlots", mock.Anything, int64(10), 0).Return(nil)

	svc := newTestService(stationRepoMock, bookingRepoMock, now)

	resp, err := svc.Reconcile(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSlots)
}

func TestService_Reconcile_StationNotFound(t *testing.T) {
	stationRepoMock := new(MockStationRepository)
	stationRepoMock.On("GetByID", mock.Anything, int64(404)).Return(nil, stationRepo.ErrStationNotFound)

	svc := newTestService(stationRepoMock, new(MockBookingRepository), time.Now())

	_, err := svc.Reconcile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestService_ReconcileAll_SweepsEveryStation(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 15, 0, 0, time.UTC)

	stationRepoMock := new(MockStationRepository)
	bookingRepoMock := new(MockBookingRepository)

	stationRepoMock.On("GetAllIDs", mock.Anything).Return([]int64{10, 11}, nil)
	stationRepoMock.On("GetByID", mock.Anything, int64(10)).Return(testStation(), nil)
	// Вторая станция сломана, но обход продолжается
	stationRepoMock.On("GetByID", mock.Anything, int64(11)).Return(nil, stationRepo.ErrStationNotFound)
	stationRepoMock.On("SetAvailableSlots", mock.Anything, int64(10), 4).Return(nil)

	svc := newTestService(stationRepoMock, bookingRepoMock, now)

	err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	stationRepoMock.AssertExpectations(t)
}

func TestCurrentBucket(t *testing.T) {
	station := testStation()

	tests := []struct {
		name     string
		now      time.Time
		expected types.TimeString
		open     bool
	}{
		{name: "start of first window", now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), expected: "08:00", open: true},
		{name: "middle of window", now: time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC), expected: "14:00", open: true},
		{name: "last window", now: time.Date(2026, 3, 10, 21, 59, 0, 0, time.UTC), expected: "21:00", open: true},
		{name: "before opening", now: time.Date(2026, 3, 10, 7, 59, 0, 0, time.UTC), open: false},
		{name: "at closing", now: time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC), open: false},
		{name: "late night", now: time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC), open: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, ok, err := currentBucket(station, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.open, ok)
			if tt.open {
				assert.Equal(t, tt.expected, bucket)
			}
		})
	}
}
