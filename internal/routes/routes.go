// Package routes defines the API routing configuration: route groups,
// their handlers and the authentication middleware applied to each.
package routes

import (
	"ezpay/internal/config"
	"ezpay/internal/handlers"
	"ezpay/internal/middleware"
	"ezpay/internal/repositories"
	"ezpay/internal/services/auth"
	"ezpay/internal/services/grant"
	qrsvc "ezpay/internal/services/qr"
	"ezpay/internal/services/ratelimit"
	"ezpay/internal/services/signing"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers, then registers
// every route group on the app.
func SetupRoutes(app *fiber.App, db *gorm.DB, qrCfg *config.QRConfig) {
	userRepo := repositories.NewUserRepository(db)
	txRepo := repositories.NewQrTransactionRepository(db)

	authService := auth.NewService(userRepo)
	authHandler := handlers.NewAuthHandler(authService)

	signer, err := signing.NewService(qrCfg.SigningKeys, qrCfg.ActiveKeyID)
	if err != nil {
		log.Fatalf("signing service: %v", err)
	}
	limiter := ratelimit.NewLimiter(qrCfg.RateCapacity, qrCfg.RateRefillPer)

	var txCache qrsvc.TransactionCache
	if repositories.CacheService != nil {
		txCache = repositories.CacheService
	}
	qrService := qrsvc.NewService(qrCfg, txRepo, signer, limiter, txCache, grant.NewService())
	qrHandler := handlers.NewQRHandler(qrService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	qr := api.Group("/qr")
	qr.Post("/generate", middleware.RequireAuth, qrHandler.GenerateQR)
	qr.Post("/validate", middleware.OptionalAuth, qrHandler.ValidateQR)
	qr.Get("/image/:transactionId", middleware.RequireAuth, qrHandler.GetImage)
	qr.Get("/transaction/:transactionId", middleware.RequireAuth, qrHandler.GetTransaction)
	qr.Post("/debug/parse", middleware.RequireAuth, qrHandler.DebugParse)
}
