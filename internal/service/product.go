package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/lib/query"
	"github.com/linemk/shop-api/internal/storage"
)

// отображение внешних имён полей каталога в колонки и обратно
var productColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"unit":      "unit",
	"createdAt": "created_at",
}

var productFieldNames = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"unit":       "unit",
	"created_at": "createdAt",
}

// ProductService определяет операции каталога. Листинг возвращает записи
// с учётом проекции fields, поэтому элементы — словари, а не структуры.
type ProductService interface {
	ListProducts(ctx context.Context, params url.Values) ([]map[string]any, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, name string, price float64, unit string) error
	UpdateProduct(ctx context.Context, id int64, name *string, price *float64, unit *string) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	log         *slog.Logger
	db          *sql.DB
	productRepo storage.ProductStorage
	cartRepo    storage.CartStorage
}

func NewProductService(log *slog.Logger, db *sql.DB, productRepo storage.ProductStorage, cartRepo storage.CartStorage) ProductService {
	return &productService{
		log:         log,
		db:          db,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// ListProducts выполняет выборку каталога: фильтр, сортировка, проекция,
// пагинация — в этом порядке. Граница пагинации проверяется по числу записей
// после фильтрации и только при явно заданном параметре page.
func (s *productService) ListProducts(ctx context.Context, params url.Values) ([]map[string]any, error) {
	const op = "service.ProductService.ListProducts"
	logger := s.log.With(slog.String("op", op))

	opts, err := query.Parse(params, productColumns)
	if err != nil {
		logger.Warn("bad listing params", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, &Error{Kind: KindValidation, Message: err.Error()})
	}

	if opts.PageSet {
		count, err := s.productRepo.Count(ctx, opts.Filters)
		if err != nil {
			logger.Error("failed to count products", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to count products: %w", op, err)
		}
		if opts.Offset >= count {
			return nil, fmt.Errorf("%s: %w", op, ErrPageNotFound)
		}
	}

	products, err := s.productRepo.List(ctx, opts)
	if err != nil {
		logger.Error("failed to list products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}

	views := make([]map[string]any, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p, opts.Fields))
	}
	return views, nil
}

// productView собирает ответную запись, ограниченную выбранными колонками.
func productView(p *models.Product, columns []string) map[string]any {
	if len(columns) == 0 {
		columns = []string{"id", "name", "price", "unit", "created_at"}
	}
	view := make(map[string]any, len(columns))
	for _, c := range columns {
		switch c {
		case "id":
			view[productFieldNames[c]] = p.ID
		case "name":
			view[productFieldNames[c]] = p.Name
		case "price":
			view[productFieldNames[c]] = p.Price
		case "unit":
			view[productFieldNames[c]] = p.Unit
		case "created_at":
			view[productFieldNames[c]] = p.CreatedAt
		}
	}
	return view
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
		}
		s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, name string, price float64, unit string) error {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", name))

	_, err := s.productRepo.GetProductByName(ctx, name)
	if err == nil {
		logger.Warn("product already exists")
		return fmt.Errorf("%s: %w", op, ErrProductExists)
	}
	if !errors.Is(err, storage.ErrProductNotFound) {
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	if _, err := s.productRepo.CreateProduct(ctx, &models.Product{Name: name, Price: price, Unit: unit}); err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product created")
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, name *string, price *float64, unit *string) error {
	const op = "service.ProductService.UpdateProduct"

	if err := s.productRepo.UpdateProduct(ctx, id, name, price, unit); err != nil {
		s.log.Error("failed to update product", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}
	return nil
}

// DeleteProduct удаляет товар вместе со ссылками из корзин — в одной транзакции.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.ProductService.DeleteProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if err := s.cartRepo.DeleteByProductTx(ctx, tx, id); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart references", slog.Any("error", err))
		return fmt.Errorf("%s: failed to clear cart references: %w", op, err)
	}

	if err := s.productRepo.DeleteProductTx(ctx, tx, id); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}
