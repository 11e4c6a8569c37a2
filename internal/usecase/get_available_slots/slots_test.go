package get_available_slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/pkg/types"
)

func TestGenerateTimeSlots_ReferenceSchedule(t *testing.T) {
	// Референсное расписание: 08:00-22:00 с шагом 60 минут дает 14 окон
	station := &domain.Station{
		OpenTime:            "08:00",
		CloseTime:           "22:00",
		SlotDurationMinutes: 60,
	}

	slots, err := generateTimeSlots(station)
	require.NoError(t, err)
	require.Len(t, slots, 14)
	assert.Equal(t, types.TimeString("08:00"), slots[0])
	assert.Equal(t, types.TimeString("21:00"), slots[13])
}

func TestGenerateTimeSlots_PartialLastWindowDropped(t *testing.T) {
	// 08:00-21:30 с шагом 60: окно 21:00-22:00 не помещается, остается 13
	station := &domain.Station{
		OpenTime:            "08:00",
		CloseTime:           "21:30",
		SlotDurationMinutes: 60,
	}

	slots, err := generateTimeSlots(station)
	require.NoError(t, err)
	require.Len(t, slots, 13)
	assert.Equal(t, types.TimeString("20:00"), slots[12])
}

func TestGenerateTimeSlots_CustomGranularity(t *testing.T) {
	station := &domain.Station{
		OpenTime:            "09:00",
		CloseTime:           "12:00",
		SlotDurationMinutes: 30,
	}

	slots, err := generateTimeSlots(station)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Equal(t, types.TimeString("11:30"), slots[5])
}

func TestGenerateTimeSlots_DegenerateSchedule(t *testing.T) {
	tests := []struct {
		name      string
		openTime  types.TimeString
		closeTime types.TimeString
	}{
		{name: "open equals close", openTime: "10:00", closeTime: "10:00"},
		{name: "open after close", openTime: "20:00", closeTime: "08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := &domain.Station{
				OpenTime:            tt.openTime,
				CloseTime:           tt.closeTime,
				SlotDurationMinutes: 60,
			}

			slots, err := generateTimeSlots(station)
			require.NoError(t, err)
			assert.Empty(t, slots)
		})
	}
}

func TestCalculateOccupancy_ExactStartMatch(t *testing.T) {
	station := &domain.Station{
		OpenTime:            "08:00",
		CloseTime:           "12:00",
		SlotDurationMinutes: 60,
		TotalSlots:          2,
	}
	slotStarts := []types.TimeString{"08:00", "09:00", "10:00", "11:00"}

	bookings := []*domain.Booking{
		{StartTime: "09:00", Status: domain.StatusConfirmed},
		{StartTime: "09:00", Status: domain.StatusConfirmed},
		{StartTime: "10:00", Status: domain.StatusConfirmed},
		// Терминальные статусы не занимают окно
		{StartTime: "11:00", Status: domain.StatusCancelledByUser},
		{StartTime: "11:00", Status: domain.StatusCompleted},
	}

	slots := calculateOccupancy(slotStarts, station, bookings)
	require.Len(t, slots, 4)

	assert.Equal(t, 0, slots[0].BookedSlots)
	assert.Equal(t, 2, slots[0].AvailableSlots)
	assert.True(t, slots[0].IsAvailable())

	assert.Equal(t, 2, slots[1].BookedSlots)
	assert.Equal(t, 0, slots[1].AvailableSlots)
	assert.True(t, slots[1].IsFull())

	assert.Equal(t, 1, slots[2].BookedSlots)
	assert.Equal(t, 1, slots[2].AvailableSlots)

	assert.Equal(t, 0, slots[3].BookedSlots)
	assert.Equal(t, 2, slots[3].AvailableSlots)
}

func TestCalculateOccupancy_NeverNegative(t *testing.T) {
	station := &domain.Station{
		SlotDurationMinutes: 60,
		TotalSlots:          1,
	}
	slotStarts := []types.TimeString{"08:00"}

	// Занятость выше вместимости (например после уменьшения total_slots)
	bookings := []*domain.Booking{
		{StartTime: "08:00", Status: domain.StatusConfirmed},
		{StartTime: "08:00", Status: domain.StatusConfirmed},
	}

	slots := calculateOccupancy(slotStarts, station, bookings)
	require.Len(t, slots, 1)
	assert.Equal(t, 2, slots[0].BookedSlots)
	assert.Equal(t, 0, slots[0].AvailableSlots)
}
