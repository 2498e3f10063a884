package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/lib/query"
)

var ErrProductNotFound = errors.New("product not found")

// все колонки таблицы products в порядке выборки по умолчанию
var productColumns = []string{"id", "name", "price", "unit", "created_at"}

// ProductStorage описывает методы для работы с каталогом товаров.
type ProductStorage interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, name *string, price *float64, unit *string) error
	// DeleteProductTx удаляет товар внутри транзакции (после зачистки корзин).
	DeleteProductTx(ctx context.Context, tx *sql.Tx, id int64) error
	// List выполняет выборку по описанию из query-пакета.
	List(ctx context.Context, opts *query.Options) ([]*models.Product, error)
	// Count считает записи с учётом фильтров — для проверки границы пагинации.
	Count(ctx context.Context, filters []query.Filter) (int, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, price, unit, created_at FROM products WHERE id = $1", id)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Unit, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	p := &models.Product{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, price, unit, created_at FROM products WHERE name = $1", name)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Unit, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, price, unit) VALUES ($1, $2, $3) RETURNING id",
		product.Name, product.Price, product.Unit,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return product, nil
}

// UpdateProduct обновляет только переданные поля (nil — оставить как есть).
func (r *productRepository) UpdateProduct(ctx context.Context, id int64, name *string, price *float64, unit *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = COALESCE($1, name), price = COALESCE($2, price), unit = COALESCE($3, unit) WHERE id = $4",
		name, price, unit, id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepository) DeleteProductTx(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// List строит запрос из типизированных опций. Имена колонок к этому моменту
// уже проверены по whitelist в query.Parse, значения уходят аргументами.
func (r *productRepository) List(ctx context.Context, opts *query.Options) ([]*models.Product, error) {
	columns := opts.Fields
	if len(columns) == 0 {
		columns = productColumns
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(" FROM products")

	where, args := buildWhere(opts.Filters)
	sb.WriteString(where)

	sb.WriteString(" ORDER BY ")
	for i, s := range opts.Sort {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.Column)
		if s.Desc {
			sb.WriteString(" DESC")
		}
	}

	args = append(args, opts.Limit, opts.Offset)
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		dest := make([]any, 0, len(columns))
		for _, c := range columns {
			switch c {
			case "id":
				dest = append(dest, &p.ID)
			case "name":
				dest = append(dest, &p.Name)
			case "price":
				dest = append(dest, &p.Price)
			case "unit":
				dest = append(dest, &p.Unit)
			case "created_at":
				dest = append(dest, &p.CreatedAt)
			default:
				return nil, fmt.Errorf("unknown column %q", c)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filters []query.Filter) (int, error) {
	where, args := buildWhere(filters)
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// buildWhere собирает WHERE из троек (колонка, оператор, значение);
// условия объединяются по AND, значения — позиционные аргументы.
func buildWhere(filters []query.Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	var sb strings.Builder
	args := make([]any, 0, len(filters))
	sb.WriteString(" WHERE ")
	for i, f := range filters {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sb, "%s %s $%d", f.Column, f.Op, len(args))
	}
	return sb.String(), args
}
