package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cartbridge/internal/chatwoot"
	"cartbridge/internal/config"
	"cartbridge/internal/db"
	"cartbridge/internal/httpserver"
	"cartbridge/internal/mcpserver"
	cartrepo "cartbridge/internal/repository/cart"
	clientrepo "cartbridge/internal/repository/client"
	productrepo "cartbridge/internal/repository/product"
	cartsvc "cartbridge/internal/service/cart"
	clientsvc "cartbridge/internal/service/client"
	productsvc "cartbridge/internal/service/product"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, productRepo)
	clientRepo := clientrepo.NewPostgres(dbpool, logger)
	clientService := clientsvc.New(clientRepo, cartRepo)

	relay := chatwoot.New(chatwoot.Config{
		BaseURL:   cfg.Chatwoot.URL,
		AccountID: cfg.Chatwoot.AccountID,
		APIToken:  cfg.Chatwoot.APIToken,
	}, nil)
	if !relay.Configured() {
		logger.Printf("chatwoot relay not configured, conversation features disabled")
	}

	mcpHandler := mcpserver.NewHandler(mcpserver.Config{
		BaseURL: cfg.PublicBaseURL,
		Relay:   relay,
		Logger:  logger,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:         cartService,
		ProductSvc:      productService,
		ClientSvc:       clientService,
		Relay:           relay,
		MCP:             mcpHandler,
		AgentWebhookURL: cfg.AgentWebhookURL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
