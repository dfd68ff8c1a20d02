package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"botpage/internal/interfaces"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthUsecase struct {
	accounts  interfaces.AccountStore
	jwtSecret []byte
}

func NewAuthUsecase(accounts interfaces.AccountStore, secret string) *AuthUsecase {
	return &AuthUsecase{
		accounts:  accounts,
		jwtSecret: []byte(secret),
	}
}

// Login authenticates a tenant owner that set a dashboard password during
// onboarding and issues a 24h token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.accounts.GetOwnerByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
