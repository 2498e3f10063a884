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

// AddressRequest — тело запросов адресной книги. Штат — только один из 50
// кодов США, индекс — NNNNN или NNNNN-NNNN.
type AddressRequest struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required,us_state"`
	Zip    string `json:"zip" validate:"required,us_zip"`
}

// AddAddressHandler обрабатывает запрос POST /users/me/address
func AddAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid address")
			return
		}

		addr := &models.Address{
			UserID: userID,
			Street: req.Street,
			City:   req.City,
			State:  req.State,
			Zip:    req.Zip,
		}
		if err := addressService.AddAddress(r.Context(), addr); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusCreated, api.Response{Message: "Address added successfully"})
	}
}

// GetAddressesHandler обрабатывает запрос GET /users/me/address
func GetAddressesHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetAddressesHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		addrs, err := addressService.ListAddresses(r.Context(), userID)
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if addrs == nil {
			addrs = []*models.Address{}
		}

		api.JSON(w, http.StatusOK, addrs)
	}
}

// UpdateAddressHandler обрабатывает запрос PUT /users/me/address/{addressId}
func UpdateAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		addressID, ok := idParam(w, r, "addressId")
		if !ok {
			return
		}

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			api.Error(w, http.StatusBadRequest, "invalid address")
			return
		}

		addr := &models.Address{
			Street: req.Street,
			City:   req.City,
			State:  req.State,
			Zip:    req.Zip,
		}
		if err := addressService.UpdateAddress(r.Context(), userID, addressID, addr); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Address updated successfully"})
	}
}

// DeleteAddressHandler обрабатывает запрос DELETE /users/me/address/{addressId}.
// Повторное удаление — no-op с успешным ответом.
func DeleteAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		addressID, ok := idParam(w, r, "addressId")
		if !ok {
			return
		}

		if err := addressService.DeleteAddress(r.Context(), userID, addressID); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "Address deleted successfully"})
	}
}
