package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-api/internal/lib/api"
	"github.com/linemk/shop-api/internal/service"
)

// CartItemRequest — тело запросов добавления/обновления позиции корзины.
type CartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// GetCartHandler обрабатывает запрос GET /cart/products
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := cartService.GetCart(r.Context(), userID)
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if items == nil {
			items = []*models.CartItem{}
		}

		api.JSON(w, http.StatusOK, items)
	}
}

// AddToCartHandler обрабатывает запрос POST /cart/products/{productId}
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		var req CartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}

		if err := cartService.AddProduct(r.Context(), userID, productID, req.Quantity); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusCreated, api.Response{Message: "Product added to cart successfully"})
	}
}

// UpdateCartHandler обрабатывает запрос PUT /cart/products/{productId}
func UpdateCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		var req CartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}

		if err := cartService.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Cart updated successfully"})
	}
}

// DeleteFromCartHandler обрабатывает запрос DELETE /cart/products/{productId}.
// Удаление отсутствующей позиции — no-op с успешным ответом.
func DeleteFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteFromCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		productID, ok := idParam(w, r, "productId")
		if !ok {
			return
		}

		if err := cartService.RemoveProduct(r.Context(), userID, productID); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Product deleted from cart successfully"})
	}
}
