package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/shop-api/internal/lib/api"
	"github.com/linemk/shop-api/internal/service"
)

// ListProductsHandler обрабатывает запрос GET /products.
// Параметры листинга (фильтры, sort, fields, page, limit) разбирает сервис.
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.ListProducts(r.Context(), r.URL.Query())
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if products == nil {
			products = []map[string]any{}
		}

		api.JSON(w, http.StatusOK, products)
	}
}

// CheapestProductsHandler обрабатывает GET /5-cheapest-products:
// тот же листинг с фиксированной сортировкой по цене и лимитом 5.
func CheapestProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheapestProductsHandler"
		logger := log.With(slog.String("op", op))

		params := r.URL.Query()
		params.Set("sort", "price")
		params.Set("limit", "5")

		products, err := productService.ListProducts(r.Context(), params)
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if products == nil {
			products = []map[string]any{}
		}

		api.JSON(w, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает запрос GET /products/{productId}
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		product, err := productService.GetProduct(r.Context(), productID)
		if err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, product)
	}
}

// CreateProductRequest — тело POST /admin/products.
type CreateProductRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gte=0"`
	Unit  string  `json:"unit" validate:"required"`
}

// CreateProductHandler обрабатывает запрос POST /admin/products
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "name, price and unit are required")
			return
		}

		if err := productService.CreateProduct(r.Context(), req.Name, req.Price, req.Unit); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusCreated, api.Response{Message: "Product created successfully"})
	}
}

// UpdateProductRequest — тело PUT /admin/products/{productId}; nil-поля не трогаются.
type UpdateProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
	Unit  *string  `json:"unit"`
}

// UpdateProductHandler обрабатывает запрос PUT /admin/products/{productId}
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		var req UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid input")
			return
		}

		if err := productService.UpdateProduct(r.Context(), productID, req.Name, req.Price, req.Unit); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Product updated successfully"})
	}
}

// DeleteProductHandler обрабатывает запрос DELETE /admin/products/{productId}
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		if err := productService.DeleteProduct(r.Context(), productID); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Product deleted successfully"})
	}
}
