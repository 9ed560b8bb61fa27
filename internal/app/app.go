// Package app wires configuration, storage and services together.
package app

import (
	"fmt"
	"log"

	"packing_tracker/internal/config"
	"packing_tracker/internal/database"
	"packing_tracker/internal/handlers"
	"packing_tracker/internal/locker"
	"packing_tracker/internal/redis"
	"packing_tracker/internal/render"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/services"
	"packing_tracker/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Items        services.ItemService
	Packing      services.PackingService
	Cartons      services.CartonService
	Shipments    services.ShipmentService
	PackingLists services.PackingListService
}

// Initialize connects to the database, and to Redis when configured, then
// builds every service.
func Initialize(cfg *config.Config) (*App, error) {
	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.LogSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{Config: cfg, DB: db}

	var lk locker.Locker = locker.NewLocalLocker()
	var cache services.DocumentCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL, cfg.LockTimeout())
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = redisClient
		lk = redisClient
		cache = redisClient
		log.Println("Using Redis for PO locks and packing list cache")
	} else {
		log.Println("Redis not configured, using in-process PO locks")
	}

	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
	notifier := services.NewWhatsAppService(whatsappClient, cfg.SupervisorPhone)

	store := repository.NewStore(db)
	a.Items = services.NewItemService(store)
	a.Packing = services.NewPackingService(store, lk, notifier)
	a.Cartons = services.NewCartonService(store)
	a.Shipments = services.NewShipmentService(store, lk, notifier)
	a.PackingLists = services.NewPackingListService(store, lk, cache, cfg.CacheTimeout(), render.NewPDFPrinter(cfg.ChromePath))

	return a, nil
}

func (a *App) Router() *gin.Engine {
	return handlers.NewRouter(handlers.Handlers{
		API:         handlers.NewAPIHandler(a.Items, a.Packing, a.Cartons, a.Config.ResetKeyHash),
		Shipment:    handlers.NewShipmentHandler(a.Shipments),
		PackingList: handlers.NewPackingListHandler(a.PackingLists),
		DB:          a.DB,
		JWTSecret:   a.Config.JWTSecret,
	})
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
