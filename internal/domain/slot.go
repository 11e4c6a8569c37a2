package domain

import "github.com/m04kA/EVC-BookingService/pkg/types"

// Slot represents one time window of station capacity
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	TotalSlots      int // Total capacity of the window
	BookedSlots     int // Confirmed bookings occupying the window
	AvailableSlots  int // TotalSlots - BookedSlots, never negative
}

// IsAvailable returns true if the window can admit at least one more booking
func (s *Slot) IsAvailable() bool {
	return s.AvailableSlots > 0
}

// IsFull returns true if the window has no free capacity
func (s *Slot) IsFull() bool {
	return s.AvailableSlots <= 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.BookedSlots) / float64(s.TotalSlots) * 100
}
