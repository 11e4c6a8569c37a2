package get_available_slots

import (
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/EVC-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного временного окна
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalSlots      int    `json:"totalSlots"`
	BookedSlots     int    `json:"bookedSlots"`
	AvailableSlots  int    `json:"availableSlots"`
	IsAvailable     bool   `json:"isAvailable"`
}

// GetAvailableSlotsResponse HTTP response model
type GetAvailableSlotsResponse struct {
	StationID int64           `json:"stationId"`
	Date      string          `json:"date"`
	Slots     []*SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из параметров HTTP запроса
func ToUseCaseRequest(stationID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		StationID: stationID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *GetAvailableSlotsResponse {
	slots := make([]*SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = &SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			TotalSlots:      slot.TotalSlots,
			BookedSlots:     slot.BookedSlots,
			AvailableSlots:  slot.AvailableSlots,
			IsAvailable:     slot.IsAvailable(),
		}
	}

	return &GetAvailableSlotsResponse{
		StationID: resp.StationID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
