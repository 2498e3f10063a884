package service

// Kind классифицирует ошибку бизнес-логики для транслятора в HTTP-статус.
type Kind int

const (
	KindValidation Kind = iota // ошибка входных данных, исправляется пользователем
	KindNotFound
	KindConflict // дубликат (email, название товара)
	KindUnauthorized
)

// Error — ошибка уровня сервиса. Message уходит клиенту как есть,
// поэтому внутренние детали сюда не попадают.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidInput       = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrEmptyCart          = &Error{Kind: KindValidation, Message: "there are no products in cart"}
	ErrInvalidOrderState  = &Error{Kind: KindValidation, Message: "invalid order state"}
	ErrInvalidCredentials = &Error{Kind: KindValidation, Message: "invalid email and password"}
	ErrAdminNotDeletable  = &Error{Kind: KindValidation, Message: "admin cannot be deleted"}

	ErrPageNotFound    = &Error{Kind: KindNotFound, Message: "this page does not exist"}
	ErrProductNotFound = &Error{Kind: KindNotFound, Message: "product not found"}
	ErrAddressNotFound = &Error{Kind: KindNotFound, Message: "address not found"}
	ErrUserNotFound    = &Error{Kind: KindNotFound, Message: "user not found"}

	ErrUserExists    = &Error{Kind: KindConflict, Message: "user already exists"}
	ErrProductExists = &Error{Kind: KindConflict, Message: "product already exists"}
)
