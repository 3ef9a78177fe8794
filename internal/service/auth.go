package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/pkg/validator"
)

type AuthService struct {
	users  core.UserRepository
	secret []byte
}

func NewAuthService(users core.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{users: users, secret: []byte(jwtSecret)}
}

func (s *AuthService) Register(ctx context.Context, input core.UserInput) error {
	if err := validator.Required(input.Name, "name"); err != nil {
		return err
	}
	if err := validator.Email(input.Email); err != nil {
		return err
	}
	if err := validator.MinLength(input.Password, 6, "password"); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, core.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
	})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *core.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	expiration := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"jti":     uuid.NewString(),
		"exp":     expiration.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}
