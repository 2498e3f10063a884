package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/storage"
)

// AddressService определяет операции с адресной книгой пользователя.
type AddressService interface {
	AddAddress(ctx context.Context, addr *models.Address) error
	ListAddresses(ctx context.Context, userID int64) ([]*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, addr *models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}

type addressService struct {
	log         *slog.Logger
	addressRepo storage.AddressStorage
}

func NewAddressService(log *slog.Logger, addressRepo storage.AddressStorage) AddressService {
	return &addressService{
		log:         log,
		addressRepo: addressRepo,
	}
}

func (s *addressService) AddAddress(ctx context.Context, addr *models.Address) error {
	const op = "service.AddressService.AddAddress"

	if _, err := s.addressRepo.AddAddress(ctx, addr); err != nil {
		s.log.Error("failed to add address", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to add address: %w", op, err)
	}
	return nil
}

func (s *addressService) ListAddresses(ctx context.Context, userID int64) ([]*models.Address, error) {
	const op = "service.AddressService.ListAddresses"

	addrs, err := s.addressRepo.GetAddressesByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list addresses", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list addresses: %w", op, err)
	}
	return addrs, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID int64, addr *models.Address) error {
	const op = "service.AddressService.UpdateAddress"

	if err := s.addressRepo.UpdateAddress(ctx, userID, addressID, addr); err != nil {
		s.log.Error("failed to update address", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update address: %w", op, err)
	}
	return nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	const op = "service.AddressService.DeleteAddress"

	if err := s.addressRepo.DeleteAddress(ctx, userID, addressID); err != nil {
		s.log.Error("failed to delete address", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete address: %w", op, err)
	}
	return nil
}
