package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("create_booking: station not found")

	// ErrStationNotBookable возвращается, когда станция неактивна или не прошла модерацию
	ErrStationNotBookable = errors.New("create_booking: station is not accepting bookings")

	// ErrSlotNotAvailable возвращается, когда все места окна заняты
	ErrSlotNotAvailable = errors.New("create_booking: no slots available for this time window")

	// ErrInvalidDate возвращается при некорректной дате бронирования (в том числе в прошлом)
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidTimeSlot возвращается, когда время не лежит на сетке слотов станции
	// или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotInPast возвращается, когда окно уже полностью закончилось
	ErrSlotInPast = errors.New("create_booking: time slot has already ended")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// CapacityError отказ по вместимости с деталями занятости окна.
// Матчится errors.Is(err, ErrSlotNotAvailable) через Unwrap.
type CapacityError struct {
	Occupied int
	Total    int
}

// Error возвращает текст ошибки с занятостью окна
func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: %d/%d slots are already booked", ErrSlotNotAvailable, e.Occupied, e.Total)
}

// Unwrap возвращает сентинел ErrSlotNotAvailable
func (e *CapacityError) Unwrap() error {
	return ErrSlotNotAvailable
}
