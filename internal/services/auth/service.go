// Package auth provides the minimal account surface the payment subsystem
// needs: registered users whose email becomes the caller key for rate
// limiting and auditing.
package auth

import (
	"context"
	"log"

	domainErrors "ezpay/internal/errors"
	"ezpay/internal/models"
	"ezpay/internal/repositories"
	"ezpay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	users *repositories.UserRepository
}

func NewService(users *repositories.UserRepository) *Service {
	if users == nil {
		panic("user repository is required")
	}
	return &Service{users: users}
}

func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainErrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Password: string(hash), Role: "user"}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		log.Printf("login failed: no user for %s", email)
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
