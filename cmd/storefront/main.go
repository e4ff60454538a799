package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ecommkit/storefront/docs"
	"github.com/ecommkit/storefront/internal/api/handlers"
	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/cache"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/health"
	"github.com/ecommkit/storefront/internal/metrics"
	repository "github.com/ecommkit/storefront/internal/repositories"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/pkg/rabbitmq"
	"github.com/ecommkit/storefront/pkg/sendgrid"
	"github.com/ecommkit/storefront/pkg/stripe"
	"github.com/ecommkit/storefront/pkg/telemetry"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title			Storefront API
//	@version		1.0
//	@description	E-commerce backend: catalog, carts, checkout, orders and payments.
//	@BasePath		/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
	if err != nil {
		slog.Error("Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()

	redisRepo, err := repository.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisRepo.Client(), &cfg.Cache)

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	notificationService := service.NewNotificationService(repos.Notification, repos.User, sendGridClient)

	orderNotifiers := []service.OrderNotifier{notificationService}

	if cfg.AMQP.URL != "" {
		publisher, err := rabbitmq.NewPublisher(&cfg.AMQP)
		if err != nil {
			slog.Error("Error connecting to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if err := publisher.Close(); err != nil {
				slog.Error("Error closing message broker connection", slog.String("error", err.Error()))
			}
		}()

		orderNotifiers = append(orderNotifiers, publisher)
	}

	userService := service.NewUserService(repos.User, redisRepo, &cfg.Security)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, productCache, cfg.Cache.ProductTTL, &cfg.Store)
	productHandler := handlers.NewProductHandler(productService, &cfg.Store)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, service.NewFanoutNotifier(orderNotifiers...))
	orderHandler := handlers.NewOrderHandler(orderService, &cfg.Store)
	paymentService := service.NewPaymentService(repos.Order, stripeClient, &cfg.Stripe)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, &cfg.Store)
	commentService := service.NewCommentService(repos.Comment, repos.Product)
	commentHandler := handlers.NewCommentHandler(commentService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/me", authMiddleware.Authenticate(userHandler.GetProfile()))
	routerMux.HandleFunc("PATCH /api/v1/users/me", authMiddleware.Authenticate(userHandler.UpdateProfile()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/slug/{slug}", productHandler.GetProductBySlug())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/products/{id}/comments", commentHandler.ListComments())
	routerMux.HandleFunc("POST /api/v1/products/{id}/comments", commentHandler.CreateComment())

	// Cart routes are unauthenticated: the cart token is the capability.
	routerMux.HandleFunc("POST /api/v1/carts", cartHandler.CreateCart())
	routerMux.HandleFunc("GET /api/v1/carts/{id}", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}", cartHandler.DeleteCart())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/items", cartHandler.AddItem())
	routerMux.HandleFunc("PATCH /api/v1/carts/{id}/items/{item_id}", cartHandler.UpdateItem())
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}/items/{item_id}", cartHandler.RemoveItem())

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))

	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.CreatePayment()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleWebhook())

	routerMux.HandleFunc("POST /api/v1/notifications/email", authMiddleware.Authenticate(notificationHandler.SendEmail()))
	routerMux.HandleFunc("GET /api/v1/notifications", authMiddleware.Authenticate(notificationHandler.ListNotifications()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	server := http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting", slog.String("address", cfg.HTTPServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received, stopping the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
