package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avolkov/storefront/internal/config"
	"github.com/avolkov/storefront/internal/es"
	"github.com/avolkov/storefront/internal/httpserver"
	"github.com/avolkov/storefront/internal/logging"
	loggingmw "github.com/avolkov/storefront/internal/middleware/logging"
	"github.com/avolkov/storefront/internal/mykafka"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(context.Background())
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
		esClient = nil
	}

	r := repo.New(db)
	inventory := &service.InventoryService{Repo: r}
	rating := &service.RatingService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{
			Svc: &service.OrderService{
				Repo:          r,
				Inventory:     inventory,
				AllowBackward: configuration.ALLOW_BACKWARD,
			},
			Producer: prod,
		},
		ProductHandler: &httpserver.ProductHTTP{
			Svc:      &service.CatalogService{Repo: r},
			Producer: prod,
		},
		ReviewHandler: &httpserver.ReviewHTTP{
			Svc:      &service.ReviewService{Repo: r, Rating: rating},
			Producer: prod,
		},
		FavoriteHandler: &httpserver.FavoriteHTTP{
			Svc: &service.FavoriteService{Repo: r},
		},
		JWTSecret: []byte(configuration.JWT_SECRET),
	}
	if esClient != nil {
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "products"}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
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
