package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/shop-api/internal/domain/models"
)

// CartStorage описывает методы для работы с корзиной.
type CartStorage interface {
	// GetCartByUserID возвращает позиции корзины вместе с данными товара (JOIN).
	GetCartByUserID(ctx context.Context, userID int64) ([]*models.CartItem, error)
	// GetCartByUserIDTx читает корзину внутри транзакции сборки заказа,
	// блокируя строки от параллельной повторной отправки заказа.
	GetCartByUserIDTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartItem, error)
	// AddItem добавляет товар: существующая пара (user, product) наращивает количество.
	AddItem(ctx context.Context, userID, productID int64, quantity int) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error
	DeleteItem(ctx context.Context, userID, productID int64) error
	DeleteByUserIDTx(ctx context.Context, tx *sql.Tx, userID int64) error
	DeleteByProductTx(ctx context.Context, tx *sql.Tx, productID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

const cartSelect = `
		SELECT c.id, c.user_id, c.product_id, c.quantity, p.id, p.name, p.price, p.unit, p.created_at
		FROM cart_items c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.id`

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, cartSelect, userID)
	if err != nil {
		return nil, err
	}
	return scanCartItems(rows)
}

func (r *cartRepository) GetCartByUserIDTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartItem, error) {
	rows, err := tx.QueryContext(ctx, cartSelect+" FOR UPDATE OF c", userID)
	if err != nil {
		return nil, err
	}
	return scanCartItems(rows)
}

func scanCartItems(rows *sql.Rows) ([]*models.CartItem, error) {
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.Unit, &item.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// SetQuantity устанавливает количество; отсутствующая позиция — no-op.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3",
		quantity, userID, productID)
	return err
}

// DeleteItem удаляет позицию; повторное удаление — no-op.
func (r *cartRepository) DeleteItem(ctx context.Context, userID, productID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	return err
}

func (r *cartRepository) DeleteByUserIDTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

// DeleteByProductTx зачищает позиции корзин перед удалением товара.
func (r *cartRepository) DeleteByProductTx(ctx context.Context, tx *sql.Tx, productID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE product_id = $1", productID)
	return err
}
