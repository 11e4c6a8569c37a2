package domain

// Default station schedule values
const (
	DefaultSlotDurationMinutes = 60
	DefaultOpenTime            = "08:00"
	DefaultCloseTime           = "22:00"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 480 // 8 часов

	MinTotalSlots = 1
	MaxTotalSlots = 100

	MaxCancellationMessageLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses статусы, не занимающие слот.
// Используются при подсчете занятости окна: completed и отмененные
// бронирования возвращают вместимость станции.
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelledByUser,
	StatusCancelledByAdmin,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusCancelledByUser,
	StatusCancelledByAdmin,
}
