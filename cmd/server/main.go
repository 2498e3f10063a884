package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/shop-api/internal/app"
	"github.com/linemk/shop-api/internal/app/handlers"
	"github.com/linemk/shop-api/internal/config"
	"github.com/linemk/shop-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-api/internal/lib/api"
	"github.com/linemk/shop-api/internal/lib/logger"
	"github.com/linemk/shop-api/internal/lib/logger/handlers/urllog"
	"github.com/linemk/shop-api/internal/messaging"
	"github.com/linemk/shop-api/internal/messaging/kafka"
	"github.com/linemk/shop-api/internal/service"
	"github.com/linemk/shop-api/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	addressRepo := storage.NewAddressRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// издатель событий заказов; без брокеров — no-op
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers)
		log.Info("kafka publisher enabled", slog.Any("brokers", cfg.Kafka.Brokers))
	}

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	userService := service.NewUserService(application.Logger, userRepo)
	addressService := service.NewAddressService(application.Logger, addressRepo)
	productService := service.NewProductService(application.Logger, application.DB, productRepo, cartRepo)
	cartService := service.NewCartService(application.Logger, cartRepo, productRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, cartRepo, addressRepo, orderRepo, publisher, cfg.Kafka.OrderTopic)

	// открытые эндпоинты аутентификации
	router.Post("/auth/signup", handlers.SignupHandler(application.Logger, authService))
	router.Post("/auth/login", handlers.LoginHandler(application.Logger, authService))

	jwtMW := jwtmiddleware.NewJWTMiddleware()

	// пользовательские маршруты
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Get("/users/me", handlers.GetCurrentUserHandler(application.Logger, userService))
		r.Get("/products", handlers.ListProductsHandler(application.Logger, productService))
		r.Get("/5-cheapest-products", handlers.CheapestProductsHandler(application.Logger, productService))
		r.Get("/products/{productId}", handlers.GetProductHandler(application.Logger, productService))
		r.Get("/cart/products", handlers.GetCartHandler(application.Logger, cartService))
		r.Post("/cart/products/{productId}", handlers.AddToCartHandler(application.Logger, cartService))
		r.Put("/cart/products/{productId}", handlers.UpdateCartHandler(application.Logger, cartService))
		r.Delete("/cart/products/{productId}", handlers.DeleteFromCartHandler(application.Logger, cartService))
		r.Post("/users/me/address", handlers.AddAddressHandler(application.Logger, addressService))
		r.Get("/users/me/address", handlers.GetAddressesHandler(application.Logger, addressService))
		r.Put("/users/me/address/{addressId}", handlers.UpdateAddressHandler(application.Logger, addressService))
		r.Delete("/users/me/address/{addressId}", handlers.DeleteAddressHandler(application.Logger, addressService))
		r.Post("/orders", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/orders", handlers.GetOrdersHandler(application.Logger, orderService))
		r.Put("/orders/{orderId}", handlers.ChangeOrderStatusHandler(application.Logger, orderService))
	})

	// админские маршруты: для не-администраторов выглядят как несуществующие
	router.Route("/admin", func(r chi.Router) {
		r.Use(jwtMW)
		r.Use(jwtmiddleware.RequireAdmin)
		r.Get("/users", handlers.ListUsersHandler(application.Logger, userService))
		r.Get("/users/{userId}", handlers.GetUserHandler(application.Logger, userService))
		r.Put("/users/{userId}", handlers.UpdateUserHandler(application.Logger, userService))
		r.Delete("/users/{userId}", handlers.DeleteUserHandler(application.Logger, userService))
		r.Post("/products", handlers.CreateProductHandler(application.Logger, productService))
		r.Put("/products/{productId}", handlers.UpdateProductHandler(application.Logger, productService))
		r.Delete("/products/{productId}", handlers.DeleteProductHandler(application.Logger, productService))
		r.Get("/orders", handlers.GetAllOrdersHandler(application.Logger, orderService))
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "Not Found")
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
