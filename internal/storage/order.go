package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/shop-api/internal/domain/models"
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrderTx вставляет заказ вместе со снимками товаров в рамках транзакции.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	GetAllOrders(ctx context.Context) ([]*models.Order, error)
	// UpdateOrderState меняет состояние без проверки существования заказа:
	// несуществующий id — no-op.
	UpdateOrderState(ctx context.Context, orderID int64, state string) error
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, amount, state, street, city, state_code, zip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id`,
		order.UserID, order.Amount, order.State,
		order.Address.Street, order.Address.City, order.Address.State, order.Address.Zip,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, p := range order.Products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_products (order_id, product_id, name, price, unit, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, p.ProductID, p.Name, p.Price, p.Unit, p.Quantity)
		if err != nil {
			return 0, fmt.Errorf("failed to create order product: %w", err)
		}
	}
	return id, nil
}

const orderSelect = `
		SELECT id, user_id, amount, state, street, city, state_code, zip, created_at
		FROM orders`

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, orderSelect+" WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return r.collectOrders(ctx, rows)
}

func (r *orderRepository) GetAllOrders(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, orderSelect+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return r.collectOrders(ctx, rows)
}

// collectOrders сканирует заказы и дочитывает их снимки товаров одним запросом.
func (r *orderRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*models.Order, error) {
	defer rows.Close()

	var orders []*models.Order
	byID := make(map[int64]*models.Order)
	var ids []int64
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.Amount, &order.State,
			&order.Address.Street, &order.Address.City, &order.Address.State, &order.Address.Zip,
			&order.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	prodRows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, name, price, unit, quantity
		 FROM order_products WHERE order_id = ANY($1) ORDER BY order_id, product_id`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer prodRows.Close()

	for prodRows.Next() {
		var orderID int64
		p := models.OrderProduct{}
		if err := prodRows.Scan(&orderID, &p.ProductID, &p.Name, &p.Price, &p.Unit, &p.Quantity); err != nil {
			return nil, err
		}
		if order, ok := byID[orderID]; ok {
			order.Products = append(order.Products, p)
		}
	}
	if err := prodRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderState(ctx context.Context, orderID int64, state string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE orders SET state = $1 WHERE id = $2", state, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order state: %w", err)
	}
	return nil
}
