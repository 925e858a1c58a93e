package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/Jmaes1212/artiq-front-end/configs"
	httpadapter "github.com/Jmaes1212/artiq-front-end/internal/adapter/http"
	"github.com/Jmaes1212/artiq-front-end/internal/adapter/prodigi"
	"github.com/Jmaes1212/artiq-front-end/internal/adapter/store"
	"github.com/Jmaes1212/artiq-front-end/internal/adapter/stripepay"
	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// maxPortShifts bounds how far the listener walks past a busy port.
const maxPortShifts = 5

type App struct {
	Router *gin.Engine
	cfg    configs.Config
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	payments := stripepay.New(cfg.Stripe.SecretKey)
	fulfilment := prodigi.NewClient(cfg.Prodigi.APIKey, cfg.Prodigi.APIBase)

	var (
		orders  usecase.OrderStore
		cleanup = func() {}
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		orders = store.NewRedisStore(rdb)
		cleanup = func() { _ = rdb.Close() }
		log.Info("order ledger: redis", "addr", cfg.Redis.Addr)
	} else {
		orders = store.NewMemoryStore()
		log.Info("order ledger: in-memory (volatile)")
	}

	stripeConfigured := cfg.Stripe.SecretKey != ""

	checkoutUC := usecase.NewCheckout(payments, fulfilment, orders, logging.New("checkout"))
	intentsUC := usecase.NewIntents(payments)

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Payments:      httpadapter.NewPaymentHandler(intentsUC, cfg.Stripe.PublishableKey, stripeConfigured),
		Checkout:      httpadapter.NewCheckoutHandler(checkoutUC),
		Orders:        httpadapter.NewOrderHandler(orders),
		Pricing:       httpadapter.NewPricingHandler(),
		WebhookSecret: cfg.Prodigi.WebhookSecret,
		StaticDir:     cfg.App.StaticDir,
	})

	return &App{Router: router, cfg: cfg}, cleanup, nil
}

// Serve binds the configured port, walking upward past ports that are
// already in use (a second dev instance, a stale process) before giving
// up.
func (a *App) Serve() error {
	log := logging.New("serve")
	srv := &http.Server{
		Handler:      a.Router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}

	base := a.cfg.App.Port
	for shift := 0; shift <= maxPortShifts; shift++ {
		port := base + shift
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) && shift < maxPortShifts {
				log.Warn("port in use, trying next", "port", port, "next", port+1)
				continue
			}
			return err
		}
		log.Info("server listening", "port", port)
		return srv.Serve(ln)
	}
	return fmt.Errorf("ports %d through %d are in use", base, base+maxPortShifts)
}
