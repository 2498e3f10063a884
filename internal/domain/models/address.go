package models

// Address представляет адрес доставки из адресной книги пользователя.
// Копия адреса встраивается в заказ при его создании.
type Address struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"` // двухбуквенный код штата США
	Zip    string `json:"zip"`   // формат NNNNN или NNNNN-NNNN
}
