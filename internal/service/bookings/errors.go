package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrStationNotFound возвращается, когда станция бронирования не найдена
	ErrStationNotFound = errors.New("station not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при попытке отменить уже отмененное бронирование
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrAlreadyCompleted возвращается при попытке перехода из терминального completed
	ErrAlreadyCompleted = errors.New("booking is already completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
