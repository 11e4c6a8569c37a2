package userservice

// Vehicle модель электромобиля пользователя из UserService
type Vehicle struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Type       string `json:"type"` // Тип ТС (car, bike, scooter)
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Number     string `json:"number"` // Госномер
	IsSelected bool   `json:"is_selected"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
