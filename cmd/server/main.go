package main

import (
	"log"
	"os"

	"filemodel-registry/config"
	"filemodel-registry/internal/audit"
	"filemodel-registry/internal/eventbus"
	"filemodel-registry/internal/guess"
	"filemodel-registry/internal/registry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&registry.FileModelHistory{},
		&registry.FileModelColumn{},
		&audit.AuditEntry{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	bus := eventbus.New()

	store := registry.NewDBStore(db)
	bus.Subscribe(store.Apply)

	auditService := &audit.AuditService{DB: db}
	bus.Subscribe(auditService.HandleEvent)

	registryService, err := registry.NewRegistryService(bus, store)
	if err != nil {
		log.Fatal("Failed to initialize registry service:", err)
	}
	registry.RegisterRoutes(r, registryService)

	guessService := &guess.GuessService{}
	guess.RegisterRoutes(r, guessService)

	audit.RegisterRoutes(r, auditService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
