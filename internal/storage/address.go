package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/shop-api/internal/domain/models"
)

var ErrAddressNotFound = errors.New("address not found")

// AddressStorage описывает методы для работы с адресной книгой пользователя.
type AddressStorage interface {
	AddAddress(ctx context.Context, addr *models.Address) (*models.Address, error)
	GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error)
	// GetAddressByIDTx читает адрес внутри транзакции сборки заказа:
	// адрес должен принадлежать именно этому пользователю.
	GetAddressByIDTx(ctx context.Context, tx *sql.Tx, userID, addressID int64) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, addr *models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) AddressStorage {
	return &addressRepository{db: db}
}

func (r *addressRepository) AddAddress(ctx context.Context, addr *models.Address) (*models.Address, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO addresses (user_id, street, city, state, zip) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		addr.UserID, addr.Street, addr.City, addr.State, addr.Zip,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	addr.ID = id
	return addr, nil
}

// GetAddressesByUserID возвращает адреса в порядке добавления.
func (r *addressRepository) GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, street, city, state, zip FROM addresses WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []*models.Address
	for rows.Next() {
		addr := &models.Address{}
		if err := rows.Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.City, &addr.State, &addr.Zip); err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *addressRepository) GetAddressByIDTx(ctx context.Context, tx *sql.Tx, userID, addressID int64) (*models.Address, error) {
	addr := &models.Address{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, user_id, street, city, state, zip FROM addresses WHERE id = $1 AND user_id = $2",
		addressID, userID)
	if err := row.Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.City, &addr.State, &addr.Zip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}

// UpdateAddress обновляет адрес; отсутствующий id — no-op, как в исходном API.
func (r *addressRepository) UpdateAddress(ctx context.Context, userID, addressID int64, addr *models.Address) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE addresses SET street = $1, city = $2, state = $3, zip = $4 WHERE id = $5 AND user_id = $6",
		addr.Street, addr.City, addr.State, addr.Zip, addressID, userID)
	return err
}

// DeleteAddress удаляет адрес; повторное удаление — no-op.
func (r *addressRepository) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM addresses WHERE id = $1 AND user_id = $2", addressID, userID)
	return err
}
