package models

import "time"

// Product представляет товар каталога
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"` // Название товара (уникальное)
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"` // Единица измерения (кг, шт и т.д.)
	CreatedAt time.Time `json:"createdAt"`
}
