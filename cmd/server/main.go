package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/game-topup-store/internal/config"
	"github.com/iliyamo/game-topup-store/internal/database"
	"github.com/iliyamo/game-topup-store/internal/handler"
	"github.com/iliyamo/game-topup-store/internal/middleware"
	"github.com/iliyamo/game-topup-store/internal/queue"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/router"
	"github.com/iliyamo/game-topup-store/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable; rate limiting and catalog cache disabled")
	} else {
		defer rdb.Close()
	}

	// repositories
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	games := repository.NewGameRepo(db)
	products := repository.NewProductRepo(db)
	offers := repository.NewOfferRepo(db)
	packs := repository.NewPackRepo(db)
	orders := repository.NewOrderRepo(db)

	// order events
	qcfg := config.LoadQueueConfig()
	var events service.EventPublisher = service.NopPublisher{}
	if qcfg.PublishEnabled {
		events = service.NewAMQPPublisher(qcfg.URL)
	}
	if qcfg.ConsumerEnabled {
		consumer := queue.NewOrderLogConsumer(qcfg.URL, qcfg.LogDir)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("order-consumer: stopped: %v", err)
			}
		}()
	}

	authSvc := service.NewAuthService(users, sessions, cfg.BcryptCost)
	catalogSvc := service.NewCatalogService(games, products, offers, packs)
	orderSvc := service.NewOrderService(orders, products, games, offers, events)

	go purgeSessions(ctx, sessions, time.Hour)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s request_id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Session(authSvc, cfg.DBTimeout))

	rl := config.LoadRateLimitConfig()
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, cfg.Production(), cfg.DBTimeout),
		middleware.NewTokenBucket(rl.WithPrefix("auth"), rdb))
	router.RegisterPublic(e, handler.NewCatalogHandler(catalogSvc, cfg.DBTimeout),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, handler.NewOrderHandler(orderSvc, cfg.DBTimeout),
		middleware.NewTokenBucket(rl.WithPrefix("orders"), rdb))
	router.RegisterAdmin(e, handler.NewAdminHandler(games, products, offers, packs, orderSvc, cfg.DBTimeout))

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// purgeSessions removes expired session rows every interval until ctx ends.
func purgeSessions(ctx context.Context, sessions *repository.SessionRepo, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			dctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := sessions.DeleteExpired(dctx, now)
			cancel()
			if err != nil {
				log.Printf("sessions: purge failed: %v", err)
			} else if n > 0 {
				log.Printf("sessions: purged %d expired", n)
			}
		}
	}
}
