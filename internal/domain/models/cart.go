package models

// CartItem представляет позицию корзины: одна строка на пару (пользователь, товар).
// Поле Product заполняется через JOIN с таблицей products.
type CartItem struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}
