package handlers

import (
	"ezpay/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func HealthCheck(c *fiber.Ctx) error {
	redisStatus := "disabled"
	if repositories.CacheService != nil {
		redisStatus = "connected"
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			redisStatus = "unreachable"
		}
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": "connected",
			"redis":    redisStatus,
		},
	})
}
