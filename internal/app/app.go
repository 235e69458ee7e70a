// Package app wires the portal server: configuration, the backend data
// accessor, domain services, the HTTP surface, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/wicaksana/paket-portal/internal/api"
	"github.com/wicaksana/paket-portal/internal/domain/cart"
	"github.com/wicaksana/paket-portal/internal/domain/checkout"
	"github.com/wicaksana/paket-portal/internal/domain/customer"
	"github.com/wicaksana/paket-portal/internal/domain/discount"
	"github.com/wicaksana/paket-portal/internal/restdata"
	"github.com/wicaksana/paket-portal/internal/session"
	"github.com/wicaksana/paket-portal/internal/storage/rest"
	"github.com/wicaksana/paket-portal/pkg/health"
	"github.com/wicaksana/paket-portal/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the portal.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing portal", zap.String("addr", cfg.Addr), zap.String("backend", cfg.Backend.URL))

	// Generic data accessor for the backend.
	client, err := restdata.New(restdata.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	// Typed repositories.
	packageRepo := rest.NewCatalogRepository(client)
	customerRepo := rest.NewCustomerRepository(client)
	transactionRepo := rest.NewTransactionRepository(client)
	userRepo := rest.NewUserRepository(client)

	// Domain services.
	engine := discount.NewEngine(discount.Config{
		Code:        cfg.Discount.Code,
		MinPurchase: cfg.Discount.MinPurchase,
		Rate:        cfg.Discount.Rate,
	})
	carts := cart.NewHub(engine)
	provisioner := customer.NewProvisioner(customerRepo, cfg.Checkout.ProceedOnProvisioningFailure)
	checkoutSvc := checkout.NewService(checkout.Config{
		Timeout: cfg.Checkout.Timeout,
	}, provisioner, transactionRepo)
	sessions := session.NewStore(session.Config{TTL: cfg.Session.TTL}, userRepo)

	// Health check service. Readiness follows the backend's packages
	// collection being reachable.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("backend", 5*time.Second, func(ctx context.Context) error {
		var probe []struct{}
		return client.Read(ctx, "packages", nil, &probe)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP surface.
	h := api.NewHandler(sessions, packageRepo, customerRepo, transactionRepo, carts, checkoutSvc)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		), "portal"),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Portal listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
