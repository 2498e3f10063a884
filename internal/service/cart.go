package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/storage"
)

// CartService определяет операции с корзиной.
type CartService interface {
	GetCart(ctx context.Context, userID int64) ([]*models.CartItem, error)
	AddProduct(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error
	RemoveProduct(ctx context.Context, userID, productID int64) error
}

type cartService struct {
	log         *slog.Logger
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	const op = "service.CartService.GetCart"

	items, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}
	return items, nil
}

// AddProduct добавляет товар в корзину; существующая позиция наращивает количество.
// Товар должен существовать на момент добавления.
func (s *cartService) AddProduct(ctx context.Context, userID, productID int64, quantity int) error {
	const op = "service.CartService.AddProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found")
			return fmt.Errorf("%s: %w", op, ErrProductNotFound)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	if err := s.cartRepo.AddItem(ctx, userID, productID, quantity); err != nil {
		logger.Error("failed to add cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to add cart item: %w", op, err)
	}

	logger.Info("product added to cart")
	return nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	const op = "service.CartService.UpdateQuantity"

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		s.log.Error("failed to update cart item", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update cart item: %w", op, err)
	}
	return nil
}

func (s *cartService) RemoveProduct(ctx context.Context, userID, productID int64) error {
	const op = "service.CartService.RemoveProduct"

	if err := s.cartRepo.DeleteItem(ctx, userID, productID); err != nil {
		s.log.Error("failed to delete cart item", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete cart item: %w", op, err)
	}
	return nil
}
