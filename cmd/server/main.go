package main

import (
	"log"
	"net/http"

	_ "authsvc/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"authsvc/internal/auth"
	"authsvc/internal/cache"
	"authsvc/internal/config"
	"authsvc/internal/db"
	"authsvc/internal/encryption"
	"authsvc/internal/events"
	"authsvc/internal/handler"
	"authsvc/internal/model"
	"authsvc/internal/repository"
	"authsvc/internal/router"
	"authsvc/internal/service"
)

const auditQueue = "auth.audit"

// @title Auth Service API
// @version 1.0
// @description User registration, login and profile editing with JWT bearer tokens.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	privateKey, publicKey, err := cfg.SigningKeys()
	if err != nil {
		log.Fatalf("token keys: %v", err)
	}

	cipherKey, cipherIV := cfg.CipherMaterial()
	fieldCipher, err := encryption.NewFieldCipher(cipherKey, cipherIV)
	if err != nil {
		log.Fatalf("field cipher: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.Dial(cfg.AMQPURL, auditQueue)
		if err != nil {
			log.Fatalf("rabbitmq init: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	userRepo := repository.NewUserRepository(gormDB, fieldCipher)
	hasher := auth.NewPasswordHasher()
	issuer := auth.NewTokenIssuer(privateKey, publicKey, cfg.TokenLifetime)

	authService := service.NewAuthService(userRepo, hasher, issuer, cacheClient, publisher)
	authHandler := handler.NewAuthHandler(authService)

	e := echo.New()
	router.Register(e, cfg, issuer, authHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
