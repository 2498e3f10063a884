package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-api/internal/lib/api"
	"github.com/linemk/shop-api/internal/service"
)

// handleError — единая точка трансляции ошибок бизнес-логики в HTTP-ответ.
// Всё, что не классифицировано сервисом, уходит как 500 без деталей.
func handleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		api.Error(w, statusFor(svcErr.Kind), svcErr.Message)
		return
	}
	logger.Error("internal error", slog.Any("error", err))
	api.Error(w, http.StatusInternalServerError, "Internal Server Error")
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default: // валидация и конфликты — пользовательские 400
		return http.StatusBadRequest
	}
}

// idParam извлекает числовой идентификатор из пути. Синтаксически
// некорректный id — это 400 {"message": "invalid input"}.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid input")
		return 0, false
	}
	return id, true
}
