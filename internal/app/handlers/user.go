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

// GetCurrentUserHandler обрабатывает запрос GET /users/me
func GetCurrentUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCurrentUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			api.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := userService.GetUser(r.Context(), userID)
		if err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, user)
	}
}

// ListUsersHandler обрабатывает запрос GET /admin/users
func ListUsersHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		users, err := userService.ListUsers(r.Context())
		if err != nil {
			handleError(logger, w, err)
			return
		}
		if users == nil {
			users = []*models.User{}
		}

		api.JSON(w, http.StatusOK, users)
	}
}

// GetUserHandler обрабатывает запрос GET /admin/users/{userId}
func GetUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := idParam(w, r, "userId")
		if !ok {
			return
		}

		user, err := userService.GetUser(r.Context(), userID)
		if err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, user)
	}
}

// UpdateUserRequest — тело PUT /admin/users/{userId}; nil-поля не трогаются.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserHandler обрабатывает запрос PUT /admin/users/{userId}
func UpdateUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := idParam(w, r, "userId")
		if !ok {
			return
		}

		var req UpdateUserRequest
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

		if err := userService.UpdateUser(r.Context(), userID, req.Name, req.Email, req.Role); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "User updated successfully"})
	}
}

// DeleteUserHandler обрабатывает запрос DELETE /admin/users/{userId}.
// Администраторы защищены от удаления.
func DeleteUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteUserHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := idParam(w, r, "userId")
		if !ok {
			return
		}

		if err := userService.DeleteUser(r.Context(), userID); err != nil {
			handleError(logger, w, err)
			return
		}

		api.JSON(w, http.StatusOK, api.Response{Message: "User deleted successfully"})
	}
}
