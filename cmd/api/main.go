package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-gateway/internal/account"
	"storefront-gateway/internal/catalog"
	"storefront-gateway/internal/checkout"
	"storefront-gateway/internal/config"
	"storefront-gateway/internal/httpserver"
	"storefront-gateway/internal/order"
	"storefront-gateway/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.BackendTimeout)
	accountClient := account.NewClient(cfg.AccountURL, cfg.BackendTimeout)
	orderClient := order.NewClient(cfg.OrderURL, cfg.BackendTimeout)

	sessions := session.NewManager(cfg.SessionIdleTimeout, logger)
	checkoutService := checkout.New(orderClient, cfg.ShippingFee)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions: sessions,
		Catalog:  catalogClient,
		Accounts: accountClient,
		Orders:   orderClient,
		Checkout: checkoutService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, cfg.SessionSweep)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
