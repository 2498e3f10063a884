package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/storage"
)

// UserService определяет администрирование пользователей и выдачу профиля.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, name, email, role *string) error
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewUserService(log *slog.Logger, userRepo storage.UserStorage) UserService {
	return &userService{
		log:      log,
		userRepo: userRepo,
	}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "service.UserService.GetUser"

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		s.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "service.UserService.ListUsers"

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list users: %w", op, err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, name, email, role *string) error {
	const op = "service.UserService.UpdateUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	// роль можно менять только в пределах известного набора
	if role != nil && *role != models.RoleUser && *role != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	if err := s.userRepo.UpdateUser(ctx, id, name, email, role); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		logger.Error("failed to update user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update user: %w", op, err)
	}
	return nil
}

// DeleteUser удаляет пользователя; администраторы защищены от удаления.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	const op = "service.UserService.DeleteUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if user.Role == models.RoleAdmin {
		logger.Warn("attempt to delete admin")
		return fmt.Errorf("%s: %w", op, ErrAdminNotDeletable)
	}

	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		logger.Error("failed to delete user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete user: %w", op, err)
	}
	return nil
}
