package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeFormat формат времени HH:MM (24-часовой)
const timeFormat = "15:04"

// minutesPerDay количество минут в сутках, верхняя граница для арифметики со слотами
const minutesPerDay = 24 * 60

// TimeString представляет время суток в формате "HH:MM".
// Используется для времени начала окон: бронирования сравниваются по точному
// строковому значению, независимо от даты и часового пояса.
type TimeString string

// NewTimeString создает TimeString из time.Time (с точностью до минуты).
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeFormat))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString.
func NewTimeStringFromString(s string) (TimeString, error) {
	parsed, err := time.Parse(timeFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid time string format: %v", err)
	}
	return TimeString(parsed.Format(timeFormat)), nil
}

// String возвращает представление "HH:MM".
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true для пустого значения.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение - корректное время "HH:MM".
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeFormat, string(t)); err != nil {
		return fmt.Errorf("invalid time string format: %v", err)
	}
	return nil
}

// TotalMinutes возвращает число минут с полуночи.
func (t TimeString) TotalMinutes() (int, error) {
	parsed, err := time.Parse(timeFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("invalid time string format: %v", err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает новый TimeString, сдвинутый на заданное число минут.
// Возвращает ошибку, если результат выходит за границы суток.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.TotalMinutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total > minutesPerDay {
		return "", fmt.Errorf("time %s + %d minutes is out of day range", t, minutes)
	}

	// 24:00 допускаем как конец рабочего дня, но представить его как HH:MM нельзя
	if total == minutesPerDay {
		return "", fmt.Errorf("time %s + %d minutes crosses midnight", t, minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore сообщает, что t строго раньше other.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter сообщает, что t строго позже other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Value реализует driver.Valuer для записи в TIME/VARCHAR колонки.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner. Принимает TIME колонки (time.Time), строки и []byte.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}

// scanString обрезает секунды у значений вида "HH:MM:SS" из TIME колонок
func (t *TimeString) scanString(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
