package models

import "time"

// Состояния заказа
const (
	OrderStateProcessing = "processing"
	OrderStateCompleted  = "completed"
	OrderStateCancelled  = "cancelled"
)

// ValidOrderState сообщает, входит ли значение в замкнутый набор состояний.
func ValidOrderState(s string) bool {
	switch s {
	case OrderStateProcessing, OrderStateCompleted, OrderStateCancelled:
		return true
	}
	return false
}

// OrderProduct — денормализованный снимок товара на момент создания заказа.
// После вставки не изменяется, даже если исходный товар поменялся.
type OrderProduct struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Quantity  int     `json:"quantity"`
}

// Order представляет заказ. Адрес и товары — снимки, не ссылки:
// заказ переживает удаление адреса и изменение цен.
type Order struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	Address   Address        `json:"address"`
	Products  []OrderProduct `json:"products"`
	Amount    float64        `json:"amount"`
	State     string         `json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
}
