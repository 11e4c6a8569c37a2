package get_available_slots

import (
	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

// generateTimeSlots генерирует сетку окон станции на день: от open_time
// с фиксированным шагом slot_duration_minutes, последнее окно обязано
// закончиться не позже close_time.
//
// Чистая функция без побочных эффектов - результат детерминирован
// для данной станции. Если рабочие часы не дают ни одного целого окна
// (или open >= close), возвращается пустой список, не ошибка.
func generateTimeSlots(station *domain.Station) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0)

	if !station.OpenTime.IsBefore(station.CloseTime) {
		return slots, nil
	}

	current := station.OpenTime
	for current.IsBefore(station.CloseTime) {
		slotEnd, err := current.AddMinutes(station.SlotDurationMinutes)
		if err != nil {
			// Окно пересекло полночь - дальше слотов нет
			break
		}
		if slotEnd.IsAfter(station.CloseTime) {
			break
		}

		slots = append(slots, current)

		current = slotEnd
	}

	return slots, nil
}

// calculateOccupancy считает занятость каждого окна по подтвержденным
// бронированиям. Матчинг - по точному совпадению времени начала:
// одно бронирование занимает ровно одно окно сетки.
func calculateOccupancy(slotStarts []types.TimeString, station *domain.Station, bookings []*domain.Booking) []domain.Slot {
	// Считаем занятость окон одним проходом по бронированиям
	occupied := make(map[types.TimeString]int, len(slotStarts))
	for _, booking := range bookings {
		if !booking.OccupiesSlot() {
			continue
		}
		occupied[booking.StartTime]++
	}

	result := make([]domain.Slot, len(slotStarts))
	for i, start := range slotStarts {
		booked := occupied[start]

		available := station.TotalSlots - booked
		if available < 0 {
			available = 0
		}

		result[i] = domain.Slot{
			StartTime:       start,
			DurationMinutes: station.SlotDurationMinutes,
			TotalSlots:      station.TotalSlots,
			BookedSlots:     booked,
			AvailableSlots:  available,
		}
	}

	return result
}
