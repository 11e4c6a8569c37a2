package get_available_slots

import (
	"time"

	"github.com/m04kA/EVC-BookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StationID int64     // ID станции
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов станции на дату
type Response struct {
	StationID int64         // ID станции
	Date      time.Time     // Дата, на которую запрашивались слоты
	Slots     []domain.Slot // Слоты с занятостью; пустой список, если станция закрыта
}
