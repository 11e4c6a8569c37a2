package cancel_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVC-BookingService/internal/api/middleware"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings"
	"github.com/m04kA/EVC-BookingService/internal/service/bookings/models"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newRouter(service BookingService) *mux.Router {
	handler := NewHandler(service, noopLogger{})

	r := mux.NewRouter()
	r.Use(middleware.Auth(noopLogger{}))
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", handler.Handle).Methods(http.MethodPost)
	return r
}

func doCancel(router *mux.Router, bookingID, userID, role string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", bytes.NewReader(body))
	req.Header.Set("X-User-ID", userID)
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Handle_Success(t *testing.T) {
	service := new(MockBookingService)
	service.On("Cancel", mock.Anything, int64(42), mock.MatchedBy(func(req *models.CancelBookingRequest) bool {
		return req.UserID == 1 && req.Message == "планы изменились"
	})).Return(&models.BookingResponse{ID: 42, Status: "cancelled_by_user"}, nil)

	body, _ := json.Marshal(map[string]string{"message": "планы изменились"})
	rec := doCancel(newRouter(service), "42", "1", "", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "cancelled_by_user", resp.Status)
	service.AssertExpectations(t)
}

func TestHandler_Handle_EmptyBodyIsAllowed(t *testing.T) {
	service := new(MockBookingService)
	service.On("Cancel", mock.Anything, int64(42), mock.MatchedBy(func(req *models.CancelBookingRequest) bool {
		return req.Message == ""
	})).Return(&models.BookingResponse{ID: 42, Status: "cancelled_by_user"}, nil)

	rec := doCancel(newRouter(service), "42", "1", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_Handle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "not found", serviceErr: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "foreign booking", serviceErr: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "already cancelled", serviceErr: bookings.ErrAlreadyCancelled, wantStatus: http.StatusBadRequest},
		{name: "already completed", serviceErr: bookings.ErrAlreadyCompleted, wantStatus: http.StatusBadRequest},
		{name: "internal", serviceErr: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockBookingService)
			service.On("Cancel", mock.Anything, int64(42), mock.Anything).Return(nil, tt.serviceErr)

			rec := doCancel(newRouter(service), "42", "1", "", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Handle_InvalidBookingID(t *testing.T) {
	service := new(MockBookingService)

	rec := doCancel(newRouter(service), "abc", "1", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Cancel")
}

func TestHandler_Handle_MissingIdentity(t *testing.T) {
	service := new(MockBookingService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/42/cancel", nil)
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	service.AssertNotCalled(t, "Cancel")
}
