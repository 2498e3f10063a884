package messaging

import "time"

// события жизненного цикла заказа

type OrderCreatedEvent struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"` // "order.created"
	OrderID   int64     `json:"orderId"`
	UserID    int64     `json:"userId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderStateChangedEvent struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"` // "order.state_changed"
	OrderID   int64     `json:"orderId"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}
