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

// CreateOrderRequest — тело POST /orders. Идентификатор адреса обязателен
// и проверяется до каких-либо изменений в хранилище.
type CreateOrderRequest struct {
	AddressID *int64 `json:"addressId" validate:"required,gt=0"`
}

// OrderStatusRequest — тело PUT /orders/{orderId}.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrderHandler обрабатывает запрос POST /orders: собирает заказ из
// корзины текущего пользователя.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "addressId is required")
			return
		}

		if err := orderService.CreateOrder(r.Context(), userID, *req.AddressID); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Order created successfully"})
	}
}

// GetOrdersHandler обрабатывает запрос GET /orders — заказы текущего пользователя.
func GetOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := orderService.ListOrders(r.Context(), userID)
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		api.JSON(w, http.StatusOK, orders)
	}
}

// ChangeOrderStatusHandler обрабатывает запрос PUT /orders/{orderId}
func ChangeOrderStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ChangeOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, ok := idParam(w, r, "orderId")
		if !ok {
			return
		}

		var req OrderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "status is required")
			return
		}

		if err := orderService.ChangeOrderState(r.Context(), orderID, req.Status); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Order status updated successfully"})
	}
}

// GetAllOrdersHandler обрабатывает запрос GET /admin/orders — все заказы магазина.
func GetAllOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetAllOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListAllOrders(r.Context())
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		api.JSON(w, http.StatusOK, orders)
	}
}
