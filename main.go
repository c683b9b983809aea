package main

// GET /good, /bad - Mount a new listing view and redirect to it.
// GET /{variant}/{id} - Render the view.
// POST /{variant}/{id}/click - Activate an item card control.
// GET /views/{id} - JSON snapshot of a view's cart and favorites.
// POST /views/{id}/actions - Dispatch a tagged action to a view.
// DELETE /views/{id} - Unmount a view.
// POST /admin/items/{name}/sold-out - Mark an item sold out (Postgres catalog only).
// GET /healthz, /metrics

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"item-listing/config"
	"item-listing/handler"
	"item-listing/service"
	"item-listing/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	st, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("catalog store unavailable", zap.Error(err))
	}
	defer st.Close()

	// --- Service ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := service.NewService(st, service.Options{
		MaxViews: cfg.Views.Max,
		ViewTTL:  cfg.Views.TTL,
		Logger:   logger.Named("service"),
		Metrics:  service.NewMetrics(reg),
	})
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, logger.Named("http"), reg)

	// --- Router ---
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	// --- Server ---
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server running", zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore picks the Postgres catalog when a DSN is configured and the
// built-in catalog otherwise.
func openStore(ctx context.Context, db config.DatabaseConfig, logger *zap.Logger) (store.CatalogStore, error) {
	if db.DSN == "" {
		logger.Info("using built-in catalog")
		return store.NewStaticStore(), nil
	}
	pg, err := store.NewPostgresStore(ctx, db.DSN)
	if err != nil {
		return nil, err
	}
	if db.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		logger.Info("database migrations executed successfully")
	}
	return pg, nil
}
