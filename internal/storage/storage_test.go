package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/lib/query"
	"github.com/linemk/shop-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestGetUserByEmail_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	created := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "pass_hash", "role", "created_at"}).
		AddRow(1, "Test User", "test@example.com", []byte("hashed-password"), "user", created)

	mock.ExpectQuery("SELECT id, name, email, pass_hash, role, created_at FROM users WHERE email = \\$1").
		WithArgs("test@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, "test@example.com")
	assert.NoError(t, err, "Expected no error when user is found")
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)
	assert.Equal(t, models.RoleUser, user.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "pass_hash", "role", "created_at"})
	mock.ExpectQuery("SELECT id, name, email, pass_hash, role, created_at FROM users WHERE email = \\$1").
		WithArgs("missing@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	name := "New Name"

	// UPDATE не зацепил ни одной строки — пользователь не существует.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET name = COALESCE($1, name), email = COALESCE($2, email), role = COALESCE($3, role) WHERE id = $4")).
		WithArgs(&name, nil, nil, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateUser(context.Background(), 42, &name, nil, nil)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductList_FiltersSortProjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	opts := &query.Options{
		Filters: []query.Filter{
			{Column: "price", Op: query.OpGt, Value: "10"},
			{Column: "price", Op: query.OpLte, Value: "50"},
		},
		Sort:   []query.Sort{{Column: "price", Desc: true}, {Column: "name"}},
		Fields: []string{"id", "name", "price"},
		Limit:  5,
		Offset: 10,
	}

	// Значения фильтров уходят как позиционные аргументы, не в текст запроса.
	expected := "SELECT id, name, price FROM products WHERE price > $1 AND price <= $2 ORDER BY price DESC, name LIMIT $3 OFFSET $4"
	rows := sqlmock.NewRows([]string{"id", "name", "price"}).
		AddRow(7, "melon", 25.5).
		AddRow(3, "apple", 12.0)
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs("10", "50", 5, 10).
		WillReturnRows(rows)

	products, err := repo.List(context.Background(), opts)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int64(7), products[0].ID)
	assert.Equal(t, "melon", products[0].Name)
	assert.Equal(t, 25.5, products[0].Price)
	// непроецируемые поля остаются нулевыми
	assert.Empty(t, products[0].Unit)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductList_DefaultColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	created := time.Now()

	opts := &query.Options{
		Sort:   []query.Sort{{Column: "created_at", Desc: true}},
		Limit:  10,
		Offset: 0,
	}

	expected := "SELECT id, name, price, unit, created_at FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows := sqlmock.NewRows([]string{"id", "name", "price", "unit", "created_at"}).
		AddRow(1, "apple", 12.0, "kg", created)
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(10, 0).
		WillReturnRows(rows)

	products, err := repo.List(context.Background(), opts)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "kg", products[0].Unit)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCount_WithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE price >= $1")).
		WithArgs("5").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.Count(context.Background(), []query.Filter{
		{Column: "price", Op: query.OpGte, Value: "5"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 17, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAddItem_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewCartRepository(db)

	// Повторное добавление того же товара наращивает количество через ON CONFLICT.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)")).
		WithArgs(int64(1), int64(2), 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.AddItem(context.Background(), 1, 2, 3)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartGetByUserIDTx_LocksRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewCartRepository(db)
	created := time.Now()

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "product_id", "quantity",
		"id", "name", "price", "unit", "created_at",
	}).AddRow(10, 1, 2, 3, 2, "apple", 12.0, "kg", created)
	// внутри транзакции строки корзины берутся с блокировкой
	mock.ExpectQuery("FOR UPDATE OF c").WithArgs(int64(1)).WillReturnRows(rows)
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	items, err := repo.GetCartByUserIDTx(context.Background(), tx, 1)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "apple", items[0].Product.Name)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderTx_InsertsSnapshots(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	order := &models.Order{
		UserID: 1,
		Address: models.Address{
			Street: "1 Main St", City: "Springfield", State: "CA", Zip: "94105",
		},
		Products: []models.OrderProduct{
			{ProductID: 2, Name: "apple", Price: 12.0, Unit: "kg", Quantity: 3},
			{ProductID: 5, Name: "melon", Price: 25.5, Unit: "pc", Quantity: 1},
		},
		Amount: 61.5,
		State:  models.OrderStateProcessing,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders (user_id, amount, state, street, city, state_code, zip, created_at)")).
		WithArgs(int64(1), 61.5, models.OrderStateProcessing, "1 Main St", "Springfield", "CA", "94105").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_products (order_id, product_id, name, price, unit, quantity)")).
		WithArgs(int64(99), int64(2), "apple", 12.0, "kg", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_products (order_id, product_id, name, price, unit, quantity)")).
		WithArgs(int64(99), int64(5), "melon", 25.5, "pc", 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	id, err := repo.CreateOrderTx(context.Background(), tx, order)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), id)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderState_MissingOrderIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	// Несуществующий id не считается ошибкой: ноль затронутых строк — успех.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET state = $1 WHERE id = $2")).
		WithArgs("completed", int64(12345)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateOrderState(context.Background(), 12345, "completed")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAddressByIDTx_WrongOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewAddressRepository(db)

	mock.ExpectBegin()
	// Адрес другого пользователя не виден: запрос возвращает 0 строк.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, street, city, state, zip FROM addresses WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "street", "city", "state", "zip"}))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	addr, err := repo.GetAddressByIDTx(context.Background(), tx, 1, 7)
	assert.ErrorIs(t, err, storage.ErrAddressNotFound)
	assert.Nil(t, addr)

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectQuery("SELECT id, name, price, unit, created_at FROM products WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnError(errors.New("db connection error"))

	product, err := repo.GetProductByID(context.Background(), 3)
	assert.Error(t, err)
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}
