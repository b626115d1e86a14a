package handlers

import (
	"log"
	"strings"

	domainErrors "ezpay/internal/errors"
	"ezpay/internal/services/auth"
	"ezpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	user, err := h.authService.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		if de, ok := domainErrors.AsDomain(err); ok {
			return response.Error(c, domainStatus(de), de.Message)
		}
		log.Printf("registration failed for %s: %v", req.Email, err)
		return response.ServerError(c, "registration failed")
	}
	return response.Success(c, "registered", fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if de, ok := domainErrors.AsDomain(err); ok {
			return response.Error(c, domainStatus(de), de.Message)
		}
		log.Printf("login failed for %s: %v", req.Email, err)
		return response.ServerError(c, "authentication failed")
	}
	return response.Success(c, "logged in", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
