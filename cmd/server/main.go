package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sparshnfc/storefront/internal/config"
	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/handlers"
	"github.com/sparshnfc/storefront/internal/kvstore"
	"github.com/sparshnfc/storefront/internal/logging"
	"github.com/sparshnfc/storefront/internal/records"
	"github.com/sparshnfc/storefront/internal/session"
	httpserver "github.com/sparshnfc/storefront/internal/transport/http"
	"github.com/sparshnfc/storefront/internal/upload"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var docs docstore.Store
	if configuration.ES_URL != "" {
		client, err := docstore.Connect(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatal(err)
		}
		docs = docstore.NewElastic(client)
	} else {
		// No document store configured: run on the in-memory one. Ordered
		// queries have no index here, so every read takes the fallback path.
		logger.Warn("ES_URL not set, using in-memory document store")
		docs = docstore.NewMemory()
	}

	kv := kvstore.NewDB(db)
	prod := events.NewProducer(configuration.KafkaBrokers)

	uploads, err := upload.New(configuration.CLOUDINARY_URL)
	if err != nil {
		log.Fatal(err)
	}

	sessions := &session.Service{
		DB:            db,
		Docs:          docs,
		KV:            kv,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}
	recs := records.NewService(docs)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), httpserver.RequestLogger(logger))

	deps := httpserver.Deps{
		Sessions:       sessions,
		CartHandler:    &handlers.CartHandler{KV: kv, Producer: prod},
		AuthHandler:    &handlers.AuthHandler{Sessions: sessions, Producer: prod},
		ProductHandler: &handlers.ProductHandler{Records: recs, Uploads: uploads, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{Records: recs, Sessions: sessions, Producer: prod},
		AdminHandler:   &handlers.AdminHandler{Records: recs, Producer: prod},
		ExportHandler:  &handlers.ExportHandler{Records: recs},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
