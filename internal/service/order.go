package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/messaging"
	"github.com/linemk/shop-api/internal/storage"
)

// OrderService определяет операции с заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, userID, addressID int64) error
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	ChangeOrderState(ctx context.Context, orderID int64, state string) error
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	addressRepo storage.AddressStorage
	orderRepo   storage.OrderStorage
	publisher   messaging.Publisher
	orderTopic  string
}

func NewOrderService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage, addressRepo storage.AddressStorage, orderRepo storage.OrderStorage, publisher messaging.Publisher, orderTopic string) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
		orderTopic:  orderTopic,
	}
}

// CreateOrder собирает заказ из корзины пользователя: считает сумму по
// текущим ценам, снимает копию адреса и товаров, сохраняет заказ и очищает
// корзину. Всё выполняется в одной транзакции, корзина блокируется FOR UPDATE —
// параллельная повторная отправка не создаст второй заказ из тех же позиций.
func (s *orderService) CreateOrder(ctx context.Context, userID, addressID int64) error {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", addressID))
	logger.Info("starting order transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Читаем корзину вместе с актуальными данными товаров
	items, err := s.cartRepo.GetCartByUserIDTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to get cart", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	if len(items) == 0 {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("cart is empty")
		return fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	// Сумма заказа — по ценам на момент сборки
	var amount float64
	snapshots := make([]models.OrderProduct, 0, len(items))
	for _, item := range items {
		amount += float64(item.Quantity) * item.Product.Price
		snapshots = append(snapshots, models.OrderProduct{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Unit:      item.Product.Unit,
			Quantity:  item.Quantity,
		})
	}

	// Адрес обязан принадлежать покупателю; заказ без адреса не создаётся
	addr, err := s.addressRepo.GetAddressByIDTx(ctx, tx, userID, addressID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if errors.Is(err, storage.ErrAddressNotFound) {
			logger.Warn("address not found")
			return fmt.Errorf("%s: %w", op, ErrAddressNotFound)
		}
		logger.Error("failed to get address", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get address: %w", op, err)
	}

	order := &models.Order{
		UserID:   userID,
		Address:  *addr,
		Products: snapshots,
		Amount:   amount,
		State:    models.OrderStateProcessing,
	}

	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, order)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	if err := s.cartRepo.DeleteByUserIDTx(ctx, tx, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// Публикация события — после коммита и только best effort:
	// недоступный брокер не делает успешный заказ ошибкой
	event := messaging.OrderCreatedEvent{
		EventID:   uuid.NewString(),
		Type:      "order.created",
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(ctx, s.orderTopic, fmt.Sprintf("%d", userID), event); err != nil {
		logger.Warn("failed to publish order created event", slog.Any("error", err))
	}

	logger.Info("order created successfully", slog.Int64("orderID", orderID), slog.Float64("amount", amount))
	return nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListAllOrders"

	orders, err := s.orderRepo.GetAllOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

// ChangeOrderState переводит заказ в новое состояние. Состояние — замкнутый
// набор; значения вне его отклоняются. Несуществующий, но корректный id
// остаётся no-op с успешным ответом.
func (s *orderService) ChangeOrderState(ctx context.Context, orderID int64, state string) error {
	const op = "service.OrderService.ChangeOrderState"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("state", state))

	if !models.ValidOrderState(state) {
		logger.Warn("invalid order state")
		return fmt.Errorf("%s: %w", op, ErrInvalidOrderState)
	}

	if err := s.orderRepo.UpdateOrderState(ctx, orderID, state); err != nil {
		logger.Error("failed to update order state", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update order state: %w", op, err)
	}

	event := messaging.OrderStateChangedEvent{
		EventID:   uuid.NewString(),
		Type:      "order.state_changed",
		OrderID:   orderID,
		State:     state,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(ctx, s.orderTopic, fmt.Sprintf("%d", orderID), event); err != nil {
		logger.Warn("failed to publish order state event", slog.Any("error", err))
	}

	logger.Info("order state updated")
	return nil
}
