package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redisadapter "github.com/nest-ms-kv/payments-microservice/internal/adapter/outbound/redis"
	"github.com/nest-ms-kv/payments-microservice/internal/infra/events"
	"github.com/nest-ms-kv/payments-microservice/internal/module/payment"
	"github.com/nest-ms-kv/payments-microservice/internal/module/payment/provider"
	"github.com/nest-ms-kv/payments-microservice/internal/shared/config"
	"github.com/nest-ms-kv/payments-microservice/internal/shared/logger"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/metrics"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/middleware"
)

// App wires the payment module to its transports and holds the shared,
// read-only dependencies. Nothing here is mutated after New returns.
type App struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine

	publisher events.Publisher
	redis     *redis.Client

	paymentHandler *payment.Handler
	webhookHandler *payment.WebhookHandler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	m := metrics.New("payments")

	// Outbound transport: Kafka when a broker is configured, otherwise the
	// in-process bus.
	var publisher events.Publisher
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, log)
		log.Info("using kafka event transport",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	} else {
		publisher = events.NewBus(log)
		log.Info("no broker configured, using in-process event bus")
	}

	// Optional webhook dedup store.
	var redisClient *redis.Client
	var dedup payment.EventDedup
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dedup = redisadapter.NewWebhookEventStore(redisClient)
		log.Info("webhook event dedup enabled", zap.String("redis", cfg.Redis.Address))
	}

	stripeProvider := provider.NewStripeProvider(&provider.StripeConfig{
		APIKey:        cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Timeout:       cfg.Stripe.Timeout,
	})

	paymentService := payment.NewService(
		stripeProvider,
		payment.RedirectURLs{
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
		},
		m,
		log,
	)

	dispatcher := payment.NewDispatcher(publisher, dedup, m, log)

	app := &App{
		config:         cfg,
		logger:         log,
		publisher:      publisher,
		redis:          redisClient,
		paymentHandler: payment.NewHandler(paymentService, log),
		webhookHandler: payment.NewWebhookHandler(stripeProvider, dispatcher, m, log),
	}
	app.router = app.buildRouter(m)

	return app, nil
}

func (a *App) buildRouter(m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	payments := api.Group("/payments")
	a.paymentHandler.RegisterRoutes(payments)
	a.webhookHandler.RegisterRoutes(payments)

	return router
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop releases application resources.
func (a *App) Stop() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("failed to close event publisher", zap.Error(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
