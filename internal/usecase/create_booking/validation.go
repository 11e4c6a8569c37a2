package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.StationID <= 0 {
		return fmt.Errorf("%w: stationID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: durationMinutes must not be negative", ErrInvalidInput)
	}

	if req.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateWindow проверяет, что окно лежит на сетке слотов станции
// и целиком помещается в рабочие часы
func validateWindow(station *domain.Station, startTime types.TimeString, durationMinutes int) error {
	if startTime.IsBefore(station.OpenTime) {
		return fmt.Errorf("%w: station opens at %s", ErrInvalidTimeSlot, station.OpenTime)
	}

	windowEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	if windowEnd.IsAfter(station.CloseTime) {
		return fmt.Errorf("%w: station closes at %s", ErrInvalidTimeSlot, station.CloseTime)
	}

	// Начало окна обязано совпадать с узлом сетки слотов
	startMinutes, err := startTime.TotalMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	openMinutes, err := station.OpenTime.TotalMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	if (startMinutes-openMinutes)%station.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: start time is not aligned to the %d-minute slot grid",
			ErrInvalidTimeSlot, station.SlotDurationMinutes)
	}

	return nil
}

// validateWindowNotEnded проверяет, что окно еще не закончилось.
// Текущее (ongoing) окно бронировать можно, полностью прошедшее - нет.
func validateWindowNotEnded(bookingDate time.Time, startTime types.TimeString, durationMinutes int, now time.Time) error {
	if !isSameDay(bookingDate, now) {
		return nil
	}

	windowEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	currentTime := types.NewTimeString(now)
	if !windowEnd.IsAfter(currentTime) {
		return ErrSlotInPast
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
